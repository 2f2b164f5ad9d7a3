package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/config"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

const defaultResearchTTL = 6 * time.Hour

// ResearchCache keeps model research results in Redis. A cache without a
// client behaves as a permanent miss.
type ResearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewResearchCache connects to Redis. An empty address or a failed ping
// yields a cache that never hits.
func NewResearchCache(cfg config.CacheConfig, logger *zap.Logger) *ResearchCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.ResearchTTL
	if ttl <= 0 {
		ttl = defaultResearchTTL
	}
	c := &ResearchCache{ttl: ttl, logger: logger}
	if cfg.RedisAddr == "" {
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, research cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return c
	}

	c.client = client
	return c
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ResearchCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultResearchTTL
	}
	return &ResearchCache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether a Redis connection backs the cache.
func (c *ResearchCache) Enabled() bool {
	return c.client != nil
}

// Key builds the cache key for a research request.
func Key(req models.ResearchRequest) string {
	return fmt.Sprintf("research:%.2f:%g:%s", req.Budget, req.TargetMargin, req.Strategy)
}

// GetResearch returns cached opportunities for req.
func (c *ResearchCache) GetResearch(ctx context.Context, req models.ResearchRequest) ([]models.ProductOpportunity, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, Key(req)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("research cache read failed", zap.Error(err))
		return nil, false
	}

	var opps []models.ProductOpportunity
	if err := json.Unmarshal(data, &opps); err != nil {
		c.logger.Warn("research cache entry corrupt", zap.String("key", Key(req)), zap.Error(err))
		return nil, false
	}
	return opps, true
}

// SetResearch stores opportunities for req until the TTL expires.
func (c *ResearchCache) SetResearch(ctx context.Context, req models.ResearchRequest, opps []models.ProductOpportunity) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(opps)
	if err != nil {
		c.logger.Warn("research cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, Key(req), data, c.ttl).Err(); err != nil {
		c.logger.Warn("research cache write failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *ResearchCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
