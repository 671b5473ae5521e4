package memory

import (
	"context"
	"sort"
	"time"

	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CRMReportRepository computes report aggregates over the in-memory stores
type CRMReportRepository struct {
	contacts      *ContactRepository
	leads         *LeadRepository
	opportunities *OpportunityRepository
	tasks         *TaskRepository
	activities    *ActivityRepository
	users         *UserRepository
}

// NewCRMReportRepository creates a report repository over the given stores
func NewCRMReportRepository(
	contacts *ContactRepository,
	leads *LeadRepository,
	opportunities *OpportunityRepository,
	tasks *TaskRepository,
	activities *ActivityRepository,
	users *UserRepository,
) *CRMReportRepository {
	return &CRMReportRepository{
		contacts:      contacts,
		leads:         leads,
		opportunities: opportunities,
		tasks:         tasks,
		activities:    activities,
		users:         users,
	}
}

// GetDashboardCounts returns entity totals for the dashboard
func (r *CRMReportRepository) GetDashboardCounts(ctx context.Context) (contacts, leads, opportunities int64, err error) {
	r.contacts.mu.RLock()
	contacts = int64(len(r.contacts.contacts))
	r.contacts.mu.RUnlock()

	r.leads.mu.RLock()
	leads = int64(len(r.leads.leads))
	r.leads.mu.RUnlock()

	r.opportunities.mu.RLock()
	opportunities = int64(len(r.opportunities.opportunities))
	r.opportunities.mu.RUnlock()

	return contacts, leads, opportunities, nil
}

// GetTotalRevenue sums the amount of all opportunities closed as won
func (r *CRMReportRepository) GetTotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	r.opportunities.mu.RLock()
	defer r.opportunities.mu.RUnlock()

	total := decimal.Zero
	for _, o := range r.opportunities.opportunities {
		if o.Stage == pipeline.StageClosedWon {
			total = total.Add(o.Amount)
		}
	}
	return total, nil
}

// GetConvertedLeadCount counts leads in the converted status
func (r *CRMReportRepository) GetConvertedLeadCount(ctx context.Context) (int64, error) {
	return r.leads.CountByStatus(ctx, lead.LeadStatusConverted)
}

// GetActiveTaskCount counts tasks that are not completed
func (r *CRMReportRepository) GetActiveTaskCount(ctx context.Context) (int64, error) {
	return r.tasks.CountActive(ctx)
}

// GetSalesByMonth buckets opportunities created since the given time by month
func (r *CRMReportRepository) GetSalesByMonth(ctx context.Context, since time.Time) ([]report.MonthlySales, error) {
	r.opportunities.mu.RLock()
	defer r.opportunities.mu.RUnlock()

	buckets := make(map[string]*report.MonthlySales)
	for _, o := range r.opportunities.opportunities {
		if o.CreatedAt.Before(since) {
			continue
		}
		month := o.CreatedAt.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &report.MonthlySales{Month: month, Revenue: decimal.Zero}
			buckets[month] = bucket
		}
		bucket.Count++
		if o.Stage == pipeline.StageClosedWon {
			bucket.Revenue = bucket.Revenue.Add(o.Amount)
		}
	}

	sales := make([]report.MonthlySales, 0, len(buckets))
	for _, bucket := range buckets {
		sales = append(sales, *bucket)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Month < sales[j].Month })
	return sales, nil
}

// GetSalesReport aggregates opportunities created inside the range
func (r *CRMReportRepository) GetSalesReport(ctx context.Context, filter report.DateRangeFilter) (*report.SalesReport, error) {
	r.opportunities.mu.RLock()
	defer r.opportunities.mu.RUnlock()

	salesReport := &report.SalesReport{
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		TotalValue:  decimal.Zero,
		WonValue:    decimal.Zero,
		ByStage:     make([]report.StageBreakdown, 0),
	}

	byStage := make(map[string]*report.StageBreakdown)
	for _, o := range r.opportunities.opportunities {
		if o.CreatedAt.Before(filter.StartDate) || o.CreatedAt.After(filter.EndDate) {
			continue
		}
		salesReport.Count++
		salesReport.TotalValue = salesReport.TotalValue.Add(o.Amount)
		if o.Stage == pipeline.StageClosedWon {
			salesReport.WonCount++
			salesReport.WonValue = salesReport.WonValue.Add(o.Amount)
		}

		breakdown, ok := byStage[string(o.Stage)]
		if !ok {
			breakdown = &report.StageBreakdown{Stage: string(o.Stage), Value: decimal.Zero}
			byStage[string(o.Stage)] = breakdown
		}
		breakdown.Count++
		breakdown.Value = breakdown.Value.Add(o.Amount)
	}

	for _, breakdown := range byStage {
		salesReport.ByStage = append(salesReport.ByStage, *breakdown)
	}
	sort.Slice(salesReport.ByStage, func(i, j int) bool {
		return salesReport.ByStage[i].Stage < salesReport.ByStage[j].Stage
	})
	return salesReport, nil
}

// GetLeadsReport aggregates all leads by status and source
func (r *CRMReportRepository) GetLeadsReport(ctx context.Context) (*report.LeadsReport, error) {
	r.leads.mu.RLock()
	defer r.leads.mu.RUnlock()

	leadsReport := &report.LeadsReport{
		ByStatus:     make(map[string]int64),
		BySource:     make(map[string]int64),
		AverageScore: decimal.Zero,
	}

	var scoreSum int64
	for _, l := range r.leads.leads {
		leadsReport.TotalLeads++
		leadsReport.ByStatus[string(l.Status)]++
		leadsReport.BySource[l.Source]++
		scoreSum += int64(l.Score)
	}
	if leadsReport.TotalLeads > 0 {
		leadsReport.AverageScore = decimal.NewFromInt(scoreSum).Div(decimal.NewFromInt(leadsReport.TotalLeads))
	}
	return leadsReport, nil
}

// GetActivityReport aggregates activities inside the range by type and
// by the user who performed them
func (r *CRMReportRepository) GetActivityReport(ctx context.Context, filter report.DateRangeFilter) (*report.ActivityReport, error) {
	r.activities.mu.RLock()
	defer r.activities.mu.RUnlock()

	activityReport := &report.ActivityReport{
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		ByType:      make(map[string]int64),
	}

	byUser := make(map[string]*report.UserActivity)
	for _, a := range r.activities.activities {
		if a.CreatedAt.Before(filter.StartDate) || a.CreatedAt.After(filter.EndDate) {
			continue
		}
		activityReport.TotalActivities++
		activityReport.ByType[string(a.Type)]++

		key := ""
		if a.UserID != nil {
			key = a.UserID.String()
		}
		entry, ok := byUser[key]
		if !ok {
			entry = &report.UserActivity{UserID: a.UserID, UserName: r.userName(ctx, a.UserID)}
			byUser[key] = entry
		}
		tallyUserActivity(entry, a.RelatedToType)
		tallyUserActivity(&activityReport.Totals, a.RelatedToType)
	}

	activityReport.ByUser = make([]report.UserActivity, 0, len(byUser))
	for _, entry := range byUser {
		activityReport.ByUser = append(activityReport.ByUser, *entry)
	}
	sort.Slice(activityReport.ByUser, func(i, j int) bool {
		return activityReport.ByUser[i].UserName < activityReport.ByUser[j].UserName
	})
	return activityReport, nil
}

func (r *CRMReportRepository) userName(ctx context.Context, userID *uuid.UUID) string {
	if userID == nil || r.users == nil {
		return ""
	}
	u, err := r.users.FindByID(ctx, *userID)
	if err != nil || u == nil {
		return ""
	}
	return u.Username
}

func tallyUserActivity(entry *report.UserActivity, relatedToType string) {
	switch relatedToType {
	case "contact":
		entry.Contacts++
	case "lead":
		entry.Leads++
	case "opportunity":
		entry.Opportunities++
	case "task":
		entry.Tasks++
	}
	entry.Total++
}

// Ensure CRMReportRepository implements report.CRMReportRepository
var _ report.CRMReportRepository = (*CRMReportRepository)(nil)
