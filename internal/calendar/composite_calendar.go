package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar implements HolidayLookup with fallback strategy.
// Typically primary is a remote calendar and fallback the local file.
type CompositeCalendar struct {
	primary  HolidayLookup
	fallback HolidayLookup
	logger   *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, fallback HolidayLookup, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// HolidaysInMonth asks primary first and falls back on error
func (cc *CompositeCalendar) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	holidays, err := cc.primary.HolidaysInMonth(ctx, year, month)
	if err == nil {
		return holidays, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Error(err))

	holidays, fallbackErr := cc.fallback.HolidaysInMonth(ctx, year, month)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return holidays, nil
}

// LoadFallback loads the fallback calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
