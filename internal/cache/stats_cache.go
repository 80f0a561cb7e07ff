package cache

import (
	"campuspolls/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache handles Redis caching of per-prompt aggregation results.
// Entries are invalidated whenever a new response lands on the prompt.
type StatsCache interface {
	Get(ctx context.Context, promptID string) (*model.PromptStats, error)
	Set(ctx context.Context, stats *model.PromptStats) error
	Invalidate(ctx context.Context, promptID string) error
}

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *statsCache) key(promptID string) string {
	return fmt.Sprintf("prompt:%s:stats", promptID)
}

func (c *statsCache) Get(ctx context.Context, promptID string) (*model.PromptStats, error) {
	data, err := c.client.Get(ctx, c.key(promptID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats model.PromptStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *statsCache) Set(ctx context.Context, stats *model.PromptStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(stats.PromptID), data, c.ttl).Err()
}

func (c *statsCache) Invalidate(ctx context.Context, promptID string) error {
	return c.client.Del(ctx, c.key(promptID)).Err()
}
