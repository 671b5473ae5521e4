package cache

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReportCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss before any set", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Minute)
		stats, err := c.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("hit returns a copy of stored stats", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Minute)
		stored := &report.DashboardStats{
			TotalContacts: 5,
			TotalRevenue:  decimal.NewFromInt(6000),
		}
		require.NoError(t, c.SetDashboard(ctx, stored))

		stats, err := c.GetDashboard(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, int64(5), stats.TotalContacts)
		assert.Equal(t, "6000", stats.TotalRevenue.String())

		stats.TotalContacts = 99
		again, err := c.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), again.TotalContacts)
	})

	t.Run("expired entry reads as a miss", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Nanosecond)
		require.NoError(t, c.SetDashboard(ctx, &report.DashboardStats{TotalLeads: 1}))
		time.Sleep(time.Millisecond)

		stats, err := c.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("invalidate clears the entry", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Minute)
		require.NoError(t, c.SetDashboard(ctx, &report.DashboardStats{TotalLeads: 1}))
		require.NoError(t, c.InvalidateDashboard(ctx))

		stats, err := c.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Nil(t, stats)
	})
}
