package report

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/activity"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	recentActivityLimit = 10
	salesTrendMonths    = 6
)

var hundred = decimal.NewFromInt(100)

// ReportService assembles CRM reports from the aggregation repository.
// The dashboard read goes through an optional cache; all other reports
// are computed per request.
type ReportService struct {
	reportRepo   report.CRMReportRepository
	activityRepo activity.ActivityRepository
	cache        cache.ReportCache
	logger       *zap.Logger
}

// NewReportService creates a new ReportService. The cache may be nil, in
// which case every dashboard read hits the repository.
func NewReportService(
	reportRepo report.CRMReportRepository,
	activityRepo activity.ActivityRepository,
	reportCache cache.ReportCache,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reportRepo:   reportRepo,
		activityRepo: activityRepo,
		cache:        reportCache,
		logger:       logger,
	}
}

// DashboardStats returns the dashboard overview. Cache misses and cache
// errors both fall through to a fresh computation.
func (s *ReportService) DashboardStats(ctx context.Context) (*report.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDashboard(ctx)
		if err != nil {
			s.logger.Warn("Dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, stats); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}

func (s *ReportService) computeDashboard(ctx context.Context) (*report.DashboardStats, error) {
	contacts, leads, opportunities, err := s.reportRepo.GetDashboardCounts(ctx)
	if err != nil {
		return nil, err
	}

	revenue, err := s.reportRepo.GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	activeTasks, err := s.reportRepo.GetActiveTaskCount(ctx)
	if err != nil {
		return nil, err
	}

	converted, err := s.reportRepo.GetConvertedLeadCount(ctx)
	if err != nil {
		return nil, err
	}

	// No leads means a 0% conversion rate, not a division error
	conversionRate := decimal.Zero
	if leads > 0 {
		conversionRate = decimal.NewFromInt(converted).Mul(hundred).Div(decimal.NewFromInt(leads))
	}

	recent, err := s.activityRepo.FindRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	return &report.DashboardStats{
		TotalContacts:      contacts,
		TotalLeads:         leads,
		TotalOpportunities: opportunities,
		TotalRevenue:       revenue,
		ActiveTasks:        activeTasks,
		ConversionRate:     conversionRate,
		RecentActivities:   recent,
	}, nil
}

// SalesByMonth returns the monthly sales trend for the trailing six months
func (s *ReportService) SalesByMonth(ctx context.Context) ([]report.MonthlySales, error) {
	since := time.Now().AddDate(0, -salesTrendMonths, 0)
	return s.reportRepo.GetSalesByMonth(ctx, since)
}

// SalesReport aggregates opportunities created inside the range. A zero
// end date defaults to now; a zero start date covers everything before.
func (s *ReportService) SalesReport(ctx context.Context, filter report.DateRangeFilter) (*report.SalesReport, error) {
	if filter.EndDate.IsZero() {
		filter.EndDate = time.Now()
	}
	return s.reportRepo.GetSalesReport(ctx, filter)
}

// LeadsReport aggregates all leads by status and source
func (s *ReportService) LeadsReport(ctx context.Context) (*report.LeadsReport, error) {
	return s.reportRepo.GetLeadsReport(ctx)
}

// ActivityReport aggregates activities inside the range by type and by user
func (s *ReportService) ActivityReport(ctx context.Context, filter report.DateRangeFilter) (*report.ActivityReport, error) {
	if filter.EndDate.IsZero() {
		filter.EndDate = time.Now()
	}
	return s.reportRepo.GetActivityReport(ctx, filter)
}
