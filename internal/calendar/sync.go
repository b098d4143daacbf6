package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// HolidayWriter persists holidays, e.g. the public_holidays table
type HolidayWriter interface {
	Upsert(ctx context.Context, holidays []Holiday) (int, error)
}

// MonthInvalidator drops a cached month, e.g. RedisCache
type MonthInvalidator interface {
	Invalidate(ctx context.Context, year int, month time.Month) error
}

// SyncResult summarizes a Syncer run
type SyncResult struct {
	Months   int
	Holidays int
	Stored   int
	Duration time.Duration
}

// Syncer copies holidays from a source lookup into storage and refreshes caches.
// Writer and Cache are optional.
type Syncer struct {
	Source HolidayLookup
	Writer HolidayWriter
	Cache  MonthInvalidator
	Logger *zap.Logger
}

// Run syncs months consecutive months starting at year/month
func (s *Syncer) Run(ctx context.Context, year int, month time.Month, months int) (SyncResult, error) {
	if err := ValidateMonth(month); err != nil {
		return SyncResult{}, err
	}
	if months <= 0 {
		return SyncResult{}, fmt.Errorf("%w: months must be positive, got %d", ErrInvalidArgument, months)
	}

	started := time.Now()
	var result SyncResult

	// drop in-process caches so the source is asked again
	if cc, ok := s.Source.(interface{ ClearCache() }); ok {
		cc.ClearCache()
	}

	cursor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		y, m := cursor.Year(), cursor.Month()

		if s.Cache != nil {
			if err := s.Cache.Invalidate(ctx, y, m); err != nil {
				s.Logger.Warn("Failed to invalidate cached month",
					zap.Int("year", y), zap.Int("month", int(m)), zap.Error(err))
			}
		}

		holidays, err := s.Source.HolidaysInMonth(ctx, y, m)
		if err != nil {
			return result, fmt.Errorf("failed to fetch holidays for %d-%02d: %w", y, int(m), err)
		}
		result.Holidays += len(holidays)

		if s.Writer != nil && len(holidays) > 0 {
			stored, err := s.Writer.Upsert(ctx, holidays)
			if err != nil {
				return result, fmt.Errorf("failed to store holidays for %d-%02d: %w", y, int(m), err)
			}
			result.Stored += stored
		}

		result.Months++
		s.Logger.Debug("Month synced",
			zap.Int("year", y),
			zap.Int("month", int(m)),
			zap.Int("holidays", len(holidays)))

		cursor = cursor.AddDate(0, 1, 0)
	}

	result.Duration = time.Since(started)
	s.Logger.Info("Holiday sync completed",
		zap.Int("months", result.Months),
		zap.Int("holidays", result.Holidays),
		zap.Int("stored", result.Stored),
		zap.Duration("duration", result.Duration))

	return result, nil
}
