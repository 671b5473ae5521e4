package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/task"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCRMReportRepository implements CRMReportRepository using GORM
type GormCRMReportRepository struct {
	db *gorm.DB
}

// NewGormCRMReportRepository creates a new GormCRMReportRepository
func NewGormCRMReportRepository(db *gorm.DB) *GormCRMReportRepository {
	return &GormCRMReportRepository{db: db}
}

// GetDashboardCounts returns entity totals for the dashboard
func (r *GormCRMReportRepository) GetDashboardCounts(ctx context.Context) (contacts, leads, opportunities int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.ContactModel{}).Count(&contacts).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&models.LeadModel{}).Count(&leads).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&models.OpportunityModel{}).Count(&opportunities).Error; err != nil {
		return 0, 0, 0, err
	}
	return contacts, leads, opportunities, nil
}

// GetTotalRevenue sums the amount of all opportunities closed as won
func (r *GormCRMReportRepository) GetTotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	type revenueResult struct {
		Total decimal.Decimal
	}
	var result revenueResult

	err := r.db.WithContext(ctx).
		Model(&models.OpportunityModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("stage = ?", pipeline.StageClosedWon).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// GetConvertedLeadCount counts leads in the converted status
func (r *GormCRMReportRepository) GetConvertedLeadCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("status = ?", lead.LeadStatusConverted).
		Count(&count).Error
	return count, err
}

// GetActiveTaskCount counts tasks that are not completed
func (r *GormCRMReportRepository) GetActiveTaskCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("status <> ?", task.StatusCompleted).
		Count(&count).Error
	return count, err
}

// GetSalesByMonth buckets opportunities created since the given time by
// month. Bucketing happens in Go so the query stays portable across the
// supported SQL dialects.
func (r *GormCRMReportRepository) GetSalesByMonth(ctx context.Context, since time.Time) ([]report.MonthlySales, error) {
	type opportunityRow struct {
		CreatedAt time.Time
		Stage     string
		Amount    decimal.Decimal
	}
	var rows []opportunityRow

	err := r.db.WithContext(ctx).
		Table("opportunities").
		Select("created_at, stage, amount").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*report.MonthlySales)
	for _, row := range rows {
		month := row.CreatedAt.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &report.MonthlySales{Month: month, Revenue: decimal.Zero}
			buckets[month] = bucket
		}
		bucket.Count++
		if row.Stage == string(pipeline.StageClosedWon) {
			bucket.Revenue = bucket.Revenue.Add(row.Amount)
		}
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	sales := make([]report.MonthlySales, 0, len(months))
	for _, month := range months {
		sales = append(sales, *buckets[month])
	}
	return sales, nil
}

// GetSalesReport aggregates opportunities created inside the range
func (r *GormCRMReportRepository) GetSalesReport(ctx context.Context, filter report.DateRangeFilter) (*report.SalesReport, error) {
	type stageResult struct {
		Stage string
		Count int64
		Value decimal.Decimal
	}
	var results []stageResult

	err := r.db.WithContext(ctx).
		Table("opportunities").
		Select(`
			stage,
			COUNT(*) as count,
			COALESCE(SUM(amount), 0) as value
		`).
		Where("created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Group("stage").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	salesReport := &report.SalesReport{
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		TotalValue:  decimal.Zero,
		WonValue:    decimal.Zero,
		ByStage:     make([]report.StageBreakdown, 0, len(results)),
	}
	for _, row := range results {
		salesReport.TotalValue = salesReport.TotalValue.Add(row.Value)
		salesReport.Count += row.Count
		if row.Stage == string(pipeline.StageClosedWon) {
			salesReport.WonValue = row.Value
			salesReport.WonCount = row.Count
		}
		salesReport.ByStage = append(salesReport.ByStage, report.StageBreakdown{
			Stage: row.Stage,
			Count: row.Count,
			Value: row.Value,
		})
	}
	return salesReport, nil
}

// GetLeadsReport aggregates all leads by status and source
func (r *GormCRMReportRepository) GetLeadsReport(ctx context.Context) (*report.LeadsReport, error) {
	type bucketResult struct {
		Key   string
		Count int64
	}

	var byStatus []bucketResult
	if err := r.db.WithContext(ctx).
		Table("leads").
		Select("status as key, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}

	var bySource []bucketResult
	if err := r.db.WithContext(ctx).
		Table("leads").
		Select("source as key, COUNT(*) as count").
		Group("source").
		Scan(&bySource).Error; err != nil {
		return nil, err
	}

	type scoreResult struct {
		Total    int64
		AvgScore decimal.Decimal
	}
	var score scoreResult
	if err := r.db.WithContext(ctx).
		Table("leads").
		Select("COUNT(*) as total, COALESCE(AVG(score), 0) as avg_score").
		Scan(&score).Error; err != nil {
		return nil, err
	}

	leadsReport := &report.LeadsReport{
		TotalLeads:   score.Total,
		ByStatus:     make(map[string]int64, len(byStatus)),
		BySource:     make(map[string]int64, len(bySource)),
		AverageScore: score.AvgScore,
	}
	for _, row := range byStatus {
		leadsReport.ByStatus[row.Key] = row.Count
	}
	for _, row := range bySource {
		leadsReport.BySource[row.Key] = row.Count
	}
	return leadsReport, nil
}

// GetActivityReport aggregates activities inside the range by type and
// by the user who performed them
func (r *GormCRMReportRepository) GetActivityReport(ctx context.Context, filter report.DateRangeFilter) (*report.ActivityReport, error) {
	type typeResult struct {
		Type  string
		Count int64
	}
	var results []typeResult

	err := r.db.WithContext(ctx).
		Table("activities").
		Select("type, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Group("type").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	activityReport := &report.ActivityReport{
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		ByType:      make(map[string]int64, len(results)),
	}
	for _, row := range results {
		activityReport.TotalActivities += row.Count
		activityReport.ByType[row.Type] = row.Count
	}

	type userResult struct {
		UserID        *uuid.UUID
		UserName      string
		RelatedToType string
		Count         int64
	}
	var userResults []userResult

	err = r.db.WithContext(ctx).
		Table("activities").
		Select("activities.user_id, COALESCE(users.username, '') as user_name, activities.related_to_type, COUNT(*) as count").
		Joins("LEFT JOIN users ON users.id = activities.user_id").
		Where("activities.created_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Group("activities.user_id, users.username, activities.related_to_type").
		Order("user_name ASC").
		Scan(&userResults).Error
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*report.UserActivity)
	order := make([]string, 0)
	for _, row := range userResults {
		key := ""
		if row.UserID != nil {
			key = row.UserID.String()
		}
		entry, ok := byUser[key]
		if !ok {
			entry = &report.UserActivity{UserID: row.UserID, UserName: row.UserName}
			byUser[key] = entry
			order = append(order, key)
		}
		addUserActivity(entry, row.RelatedToType, row.Count)
		addUserActivity(&activityReport.Totals, row.RelatedToType, row.Count)
	}

	activityReport.ByUser = make([]report.UserActivity, 0, len(order))
	for _, key := range order {
		activityReport.ByUser = append(activityReport.ByUser, *byUser[key])
	}
	return activityReport, nil
}

func addUserActivity(entry *report.UserActivity, relatedToType string, count int64) {
	switch relatedToType {
	case "contact":
		entry.Contacts += count
	case "lead":
		entry.Leads += count
	case "opportunity":
		entry.Opportunities += count
	case "task":
		entry.Tasks += count
	}
	entry.Total += count
}

// Ensure GormCRMReportRepository implements CRMReportRepository
var _ report.CRMReportRepository = (*GormCRMReportRepository)(nil)
