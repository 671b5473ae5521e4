package report

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is a read model for the dashboard overview
// This is a CQRS read model optimized for querying
type DashboardStats struct {
	TotalContacts      int64               `json:"total_contacts"`
	TotalLeads         int64               `json:"total_leads"`
	TotalOpportunities int64               `json:"total_opportunities"`
	TotalRevenue       decimal.Decimal     `json:"total_revenue"`
	ActiveTasks        int64               `json:"active_tasks"`
	ConversionRate     decimal.Decimal     `json:"conversion_rate"`
	RecentActivities   []activity.Activity `json:"recent_activities"`
}

// MonthlySales is one month's bucket in the sales trend
type MonthlySales struct {
	Month   string          `json:"month"` // formatted as YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// StageBreakdown aggregates opportunities for one pipeline stage
type StageBreakdown struct {
	Stage string          `json:"stage"`
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// SalesReport aggregates opportunities over a date range
type SalesReport struct {
	PeriodStart time.Time        `json:"period_start"`
	PeriodEnd   time.Time        `json:"period_end"`
	TotalValue  decimal.Decimal  `json:"total_value"`
	WonValue    decimal.Decimal  `json:"won_value"`
	Count       int64            `json:"count"`
	WonCount    int64            `json:"won_count"`
	ByStage     []StageBreakdown `json:"by_stage"`
}

// LeadsReport aggregates leads by status and source
type LeadsReport struct {
	TotalLeads   int64            `json:"total_leads"`
	ByStatus     map[string]int64 `json:"by_status"`
	BySource     map[string]int64 `json:"by_source"`
	AverageScore decimal.Decimal  `json:"average_score"`
}

// UserActivity is one user's row in the activity report: how many
// contacts, leads, opportunities and tasks they touched in the range
type UserActivity struct {
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	UserName      string     `json:"user_name"`
	Contacts      int64      `json:"contacts"`
	Leads         int64      `json:"leads"`
	Opportunities int64      `json:"opportunities"`
	Tasks         int64      `json:"tasks"`
	Total         int64      `json:"total"`
}

// ActivityReport aggregates the activity feed over a date range
type ActivityReport struct {
	PeriodStart     time.Time        `json:"period_start"`
	PeriodEnd       time.Time        `json:"period_end"`
	TotalActivities int64            `json:"total_activities"`
	ByType          map[string]int64 `json:"by_type"`
	ByUser          []UserActivity   `json:"by_user"`
	Totals          UserActivity     `json:"totals"`
}

// DateRangeFilter bounds a report query in time
type DateRangeFilter struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CRMReportRepository defines aggregation queries over the CRM data.
// Implementations push the arithmetic into the store where possible.
type CRMReportRepository interface {
	// GetDashboardCounts returns entity totals for the dashboard
	GetDashboardCounts(ctx context.Context) (contacts, leads, opportunities int64, err error)

	// GetTotalRevenue sums the amount of all opportunities closed as won
	GetTotalRevenue(ctx context.Context) (decimal.Decimal, error)

	// GetConvertedLeadCount counts leads in the converted status
	GetConvertedLeadCount(ctx context.Context) (int64, error)

	// GetActiveTaskCount counts tasks that are not completed
	GetActiveTaskCount(ctx context.Context) (int64, error)

	// GetSalesByMonth buckets opportunities created since the given time by
	// calendar month. Buckets are sparse and ordered ascending; revenue sums
	// only deals closed as won while count includes every deal in the bucket.
	GetSalesByMonth(ctx context.Context, since time.Time) ([]MonthlySales, error)

	// GetSalesReport aggregates opportunities created inside the range
	GetSalesReport(ctx context.Context, filter DateRangeFilter) (*SalesReport, error)

	// GetLeadsReport aggregates all leads by status and source
	GetLeadsReport(ctx context.Context) (*LeadsReport, error)

	// GetActivityReport aggregates activities inside the range by type
	GetActivityReport(ctx context.Context, filter DateRangeFilter) (*ActivityReport, error)
}
