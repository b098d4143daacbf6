package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is a HolidayLookup decorator that keeps each month's holidays in Redis.
// Redis failures are logged and the wrapped lookup is used directly.
type RedisCache struct {
	rdb    *redis.Client
	inner  HolidayLookup
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

type cachedHoliday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// NewRedisCache wraps inner with a Redis month cache
func NewRedisCache(rdb *redis.Client, inner HolidayLookup, ttl time.Duration, prefix string, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "agenda:holidays"
	}
	return &RedisCache{rdb: rdb, inner: inner, ttl: ttl, prefix: prefix, logger: logger}
}

// HolidaysInMonth serves the month from Redis, filling it from the inner lookup on a miss
func (rc *RedisCache) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	key := rc.prefix + ":" + monthKey(year, month)

	raw, err := rc.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		holidays, decodeErr := decodeHolidays(raw)
		if decodeErr == nil {
			return holidays, nil
		}
		rc.logger.Warn("Discarding malformed cache entry", zap.String("key", key), zap.Error(decodeErr))
	case errors.Is(err, redis.Nil):
	default:
		rc.logger.Warn("Redis cache read failed", zap.String("key", key), zap.Error(err))
	}

	holidays, err := rc.inner.HolidaysInMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	payload, err := encodeHolidays(holidays)
	if err != nil {
		return holidays, nil
	}
	if err := rc.rdb.Set(ctx, key, payload, rc.ttl).Err(); err != nil {
		rc.logger.Warn("Redis cache write failed", zap.String("key", key), zap.Error(err))
	}

	return holidays, nil
}

// Invalidate drops the cached month
func (rc *RedisCache) Invalidate(ctx context.Context, year int, month time.Month) error {
	return rc.rdb.Del(ctx, rc.prefix+":"+monthKey(year, month)).Err()
}

func encodeHolidays(holidays []Holiday) ([]byte, error) {
	entries := make([]cachedHoliday, len(holidays))
	for i, h := range holidays {
		entries[i] = cachedHoliday{Date: h.Date.Format("2006-01-02"), Name: h.Name}
	}
	return json.Marshal(entries)
}

func decodeHolidays(raw []byte) ([]Holiday, error) {
	var entries []cachedHoliday
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	holidays := make([]Holiday, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, Holiday{Date: date, Name: e.Name})
	}
	return holidays, nil
}
