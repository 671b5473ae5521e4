package cache

import (
	"context"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/report"
)

// InMemoryReportCache implements ReportCache with a process-local store.
// Suitable for single-instance deployments and testing; state is not
// shared across processes.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	stats     *report.DashboardStats
	expiresAt time.Time
	ttl       time.Duration
}

// NewInMemoryReportCache creates a new in-memory report cache
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &InMemoryReportCache{ttl: ttl}
}

// GetDashboard retrieves cached dashboard stats, honoring expiry
func (c *InMemoryReportCache) GetDashboard(ctx context.Context) (*report.DashboardStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stats == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}
	stats := *c.stats
	return &stats, nil
}

// SetDashboard stores dashboard stats with the configured TTL
func (c *InMemoryReportCache) SetDashboard(ctx context.Context, stats *report.DashboardStats) error {
	if stats == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *stats
	c.stats = &copied
	c.expiresAt = time.Now().Add(c.ttl)
	return nil
}

// InvalidateDashboard removes cached dashboard stats
func (c *InMemoryReportCache) InvalidateDashboard(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = nil
	return nil
}

// Close is a no-op for the in-memory cache
func (c *InMemoryReportCache) Close() error {
	return nil
}

// Ensure InMemoryReportCache implements ReportCache
var _ ReportCache = (*InMemoryReportCache)(nil)
