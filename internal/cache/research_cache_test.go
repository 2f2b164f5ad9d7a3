package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/resaledesk/internal/config"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

func TestKey(t *testing.T) {
	req := models.ResearchRequest{Budget: 50, TargetMargin: 40, Strategy: models.StrategyBalanced}
	assert.Equal(t, "research:50.00:40:balanced", Key(req))

	other := req
	other.Strategy = models.StrategyAggressive
	assert.NotEqual(t, Key(req), Key(other))
}

func TestResearchCache_DisabledWithoutAddress(t *testing.T) {
	c := NewResearchCache(config.CacheConfig{}, nil)
	assert.False(t, c.Enabled())
	assert.Equal(t, defaultResearchTTL, c.ttl)

	req := models.ResearchRequest{Budget: 10}
	c.SetResearch(context.Background(), req, []models.ProductOpportunity{{Name: "x"}})
	_, ok := c.GetResearch(context.Background(), req)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestResearchCache_UnreachableServerIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	c := NewWithClient(client, time.Minute, nil)
	t.Cleanup(func() { _ = c.Close() })

	req := models.ResearchRequest{Budget: 10}
	c.SetResearch(context.Background(), req, []models.ProductOpportunity{{Name: "x"}})
	_, ok := c.GetResearch(context.Background(), req)
	assert.False(t, ok)
}
