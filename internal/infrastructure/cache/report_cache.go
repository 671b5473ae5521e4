package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/report"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dashboardCacheKey = "crm:reports:dashboard"
	defaultReportTTL  = 30 * time.Second
)

// RedisConfig holds the connection settings for the Redis cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ReportCache caches expensive report aggregates between requests.
// A cache miss returns (nil, nil) so callers fall through to the store.
type ReportCache interface {
	GetDashboard(ctx context.Context) (*report.DashboardStats, error)
	SetDashboard(ctx context.Context, stats *report.DashboardStats) error
	InvalidateDashboard(ctx context.Context) error
	Close() error
}

// RedisReportCache implements ReportCache using Redis
type RedisReportCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisReportCacheOption is a functional option for configuring the cache
type RedisReportCacheOption func(*RedisReportCache)

// WithReportTTL sets how long dashboard stats stay cached
func WithReportTTL(ttl time.Duration) RedisReportCacheOption {
	return func(c *RedisReportCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisReportCacheOption {
	return func(c *RedisReportCache) {
		c.logger = logger
	}
}

// NewRedisReportCache creates a new Redis-backed report cache
func NewRedisReportCache(cfg RedisConfig, opts ...RedisReportCacheOption) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisReportCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultReportTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisReportCacheWithClient(client *redis.Client, opts ...RedisReportCacheOption) *RedisReportCache {
	cache := &RedisReportCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultReportTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// GetDashboard retrieves cached dashboard stats
func (c *RedisReportCache) GetDashboard(ctx context.Context) (*report.DashboardStats, error) {
	data, err := c.client.Get(ctx, dashboardCacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for dashboard stats")
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get dashboard stats from cache", zap.Error(err))
		return nil, fmt.Errorf("failed to get dashboard stats from cache: %w", err)
	}

	var stats report.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.logger.Error("Failed to unmarshal dashboard stats", zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, dashboardCacheKey)
		return nil, fmt.Errorf("failed to unmarshal dashboard stats: %w", err)
	}

	c.logger.Debug("Cache hit for dashboard stats")
	return &stats, nil
}

// SetDashboard stores dashboard stats in cache
func (c *RedisReportCache) SetDashboard(ctx context.Context, stats *report.DashboardStats) error {
	if stats == nil {
		return nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.Error("Failed to marshal dashboard stats", zap.Error(err))
		return fmt.Errorf("failed to marshal dashboard stats: %w", err)
	}

	if err := c.client.Set(ctx, dashboardCacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to set dashboard stats in cache", zap.Error(err))
		return fmt.Errorf("failed to set dashboard stats in cache: %w", err)
	}

	c.logger.Debug("Cached dashboard stats", zap.Duration("ttl", c.ttl))
	return nil
}

// InvalidateDashboard removes cached dashboard stats
func (c *RedisReportCache) InvalidateDashboard(ctx context.Context) error {
	if err := c.client.Del(ctx, dashboardCacheKey).Err(); err != nil {
		c.logger.Error("Failed to invalidate dashboard stats", zap.Error(err))
		return fmt.Errorf("failed to invalidate dashboard stats: %w", err)
	}
	return nil
}

// Close releases the Redis client if this cache owns it
func (c *RedisReportCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisReportCache implements ReportCache
var _ ReportCache = (*RedisReportCache)(nil)
