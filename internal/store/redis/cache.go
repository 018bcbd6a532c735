// Package redis caches the recent bar history so a restarted chartd can
// warm-start its pane instead of reseeding from scratch. Like the SQLite
// recorder, it is optional; the pane never depends on it.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"chart-systemv1/internal/model"
)

const barsKey = "chart:bars"

// Cache wraps a Redis client with the bar list operations.
type Cache struct {
	rdb *goredis.Client
	max int64
}

// New connects to Redis and verifies the connection with a short ping.
func New(addr, password string, maxBars int) (*Cache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{rdb: rdb, max: int64(maxBars)}, nil
}

// Append pushes one bar onto the list and trims it to the cap.
func (c *Cache) Append(ctx context.Context, b model.Bar) error {
	pipe := c.rdb.Pipeline()
	pipe.RPush(ctx, barsKey, b.JSON())
	pipe.LTrim(ctx, barsKey, -c.max, -1)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadRecent reads up to n most recent bars, time-ascending. Entries that
// fail to decode are skipped.
func (c *Cache) LoadRecent(ctx context.Context, n int) ([]model.Bar, error) {
	raw, err := c.rdb.LRange(ctx, barsKey, int64(-n), -1).Result()
	if err != nil {
		return nil, err
	}

	bars := make([]model.Bar, 0, len(raw))
	for _, item := range raw {
		var b model.Bar
		if json.Unmarshal([]byte(item), &b) != nil {
			continue
		}
		bars = append(bars, b)
	}
	return model.SanitizeBars(bars), nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
