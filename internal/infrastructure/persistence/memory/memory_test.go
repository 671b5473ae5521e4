package memory

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/pipeline"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/task"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository()

	c, err := contact.NewContact("Jane", "Doe", "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, c))

	t.Run("finds saved contact", func(t *testing.T) {
		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", found.Email)
	})

	t.Run("finds by email regardless of case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "JANE@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("delete is not idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, c.ID))
		err := repo.Delete(ctx, c.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("missing contact reports not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestContactRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository()

	for _, email := range []string{"a@acme.com", "b@acme.com", "c@globex.com"} {
		c, err := contact.NewContact("Test", "User", email)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
	}

	t.Run("search narrows results", func(t *testing.T) {
		results, err := repo.FindAll(ctx, shared.Filter{Search: "globex"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("pagination slices results", func(t *testing.T) {
		results, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("status filter applies", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.Filter{Filters: map[string]interface{}{"status": "Inactive"}})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestLeadRepository_CountByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewLeadRepository()

	l1, err := lead.NewLead("Prospect A", "a@example.com", "Website", 50)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, l1))

	l2, err := lead.NewLead("Prospect B", "b@example.com", "Referral", 80)
	require.NoError(t, err)
	require.NoError(t, l2.Convert())
	require.NoError(t, repo.Save(ctx, l2))

	converted, err := repo.CountByStatus(ctx, lead.LeadStatusConverted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), converted)

	fresh, err := repo.CountByStatus(ctx, lead.LeadStatusNew)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh)
}

func TestTaskRepository_CountActive(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	done, err := task.NewTask("Write summary", task.PriorityLow)
	require.NoError(t, err)
	require.NoError(t, done.SetStatus(task.StatusCompleted))
	require.NoError(t, repo.Save(ctx, done))

	open, err := task.NewTask("Call the customer", task.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, open))

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCRMReportRepository_Aggregates(t *testing.T) {
	ctx := context.Background()
	contacts := NewContactRepository()
	leads := NewLeadRepository()
	opportunities := NewOpportunityRepository()
	tasks := NewTaskRepository()
	activities := NewActivityRepository()
	reports := NewCRMReportRepository(contacts, leads, opportunities, tasks, activities, NewUserRepository())

	closeDate := time.Now().AddDate(0, 1, 0)
	for _, amount := range []int64{1000, 2000, 3000} {
		o, err := pipeline.NewOpportunity("Deal", "Acme", decimal.NewFromInt(amount), 50, closeDate)
		require.NoError(t, err)
		require.NoError(t, opportunities.Save(ctx, o))
	}

	won, err := pipeline.NewOpportunity("Closed deal", "Globex", decimal.NewFromInt(500), 90, closeDate)
	require.NoError(t, err)
	require.NoError(t, won.ChangeStage(pipeline.StageClosedWon))
	require.NoError(t, opportunities.Save(ctx, won))

	t.Run("total revenue counts only won deals", func(t *testing.T) {
		total, err := reports.GetTotalRevenue(ctx)
		require.NoError(t, err)
		assert.Equal(t, "500", total.String())
	})

	t.Run("dashboard counts reflect stored entities", func(t *testing.T) {
		_, _, opps, err := reports.GetDashboardCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), opps)
	})

	t.Run("sales by month buckets current month", func(t *testing.T) {
		sales, err := reports.GetSalesByMonth(ctx, time.Now().AddDate(0, -6, 0))
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, time.Now().Format("2006-01"), sales[0].Month)
		assert.Equal(t, int64(4), sales[0].Count)
		assert.Equal(t, "500", sales[0].Revenue.String())
	})

	t.Run("leads report guards zero division", func(t *testing.T) {
		leadsReport, err := reports.GetLeadsReport(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), leadsReport.TotalLeads)
		assert.True(t, leadsReport.AverageScore.IsZero())
	})
}

func TestCRMReportRepository_SalesReportRange(t *testing.T) {
	ctx := context.Background()
	opportunities := NewOpportunityRepository()
	reports := NewCRMReportRepository(
		NewContactRepository(), NewLeadRepository(), opportunities,
		NewTaskRepository(), NewActivityRepository(), NewUserRepository(),
	)

	o, err := pipeline.NewOpportunity("Q3 deal", "Acme", decimal.NewFromInt(1500), 40, time.Now().AddDate(0, 2, 0))
	require.NoError(t, err)
	require.NoError(t, opportunities.Save(ctx, o))

	filter := report.DateRangeFilter{
		StartDate: time.Now().AddDate(0, 0, -1),
		EndDate:   time.Now().AddDate(0, 0, 1),
	}
	salesReport, err := reports.GetSalesReport(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), salesReport.Count)
	assert.Equal(t, "1500", salesReport.TotalValue.String())
	assert.Equal(t, int64(0), salesReport.WonCount)

	empty, err := reports.GetSalesReport(ctx, report.DateRangeFilter{
		StartDate: time.Now().AddDate(-1, 0, 0),
		EndDate:   time.Now().AddDate(0, -6, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
	assert.True(t, empty.TotalValue.IsZero())
}
