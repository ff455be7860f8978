// Package cache keeps computed month summaries in Redis and drops them when
// the underlying events change.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/zisseki/internal/report"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a summary may outlive a missed invalidation.
const DefaultTTL = 10 * time.Minute

// NewRedisClient creates a client; it does not connect until first use.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SummaryCache implements report.SummaryCache and event.Notifier.
type SummaryCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	loc    *time.Location
	logger *zap.Logger
}

// NewSummaryCache wraps rdb. Month keys are cut in loc.
func NewSummaryCache(rdb *redis.Client, ttl time.Duration, loc *time.Location, logger *zap.Logger) *SummaryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryCache{rdb: rdb, ttl: ttl, loc: loc, logger: logger}
}

// SummaryKey returns the key of an employee's month summary.
func SummaryKey(employee string, year, month int) string {
	return fmt.Sprintf("zisseki:summary:%s:%04d-%02d", employee, year, month)
}

// Ping checks the connection.
func (c *SummaryCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// GetSummary returns a cached summary; ok is false on a miss.
func (c *SummaryCache) GetSummary(ctx context.Context, employee string, year, month int) (*report.Summary, bool, error) {
	raw, err := c.rdb.Get(ctx, SummaryKey(employee, year, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading summary: %w", err)
	}
	var s report.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decoding summary: %w", err)
	}
	return &s, true, nil
}

// SetSummary stores a summary with the cache TTL.
func (c *SummaryCache) SetSummary(ctx context.Context, employee string, year, month int, s *report.Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := c.rdb.Set(ctx, SummaryKey(employee, year, month), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// EventsChanged drops the summaries of every month touched by times.
func (c *SummaryCache) EventsChanged(ctx context.Context, employee string, times ...time.Time) {
	keys := c.keysFor(employee, times)
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("summary invalidation failed",
			zap.String("employee", employee),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// keysFor returns the distinct month keys of times. A week can straddle two
// months, so the day six days later is included as well.
func (c *SummaryCache) keysFor(employee string, times []time.Time) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		for _, d := range []time.Time{t.In(c.loc), t.In(c.loc).AddDate(0, 0, 6)} {
			key := SummaryKey(employee, d.Year(), int(d.Month()))
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}
