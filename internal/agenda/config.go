package agenda

import (
	"fmt"
	"time"

	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

// Default grid and working hours
const (
	DefaultSlotInterval = 15 * time.Minute
	DefaultLocale       = "en"
)

var (
	DefaultGridStart = dateutil.Clock{Hour: 8}
	DefaultGridEnd   = dateutil.Clock{Hour: 22}
	DefaultWorkStart = dateutil.Clock{Hour: 9, Minute: 30}
	DefaultWorkEnd   = dateutil.Clock{Hour: 19}
)

// Hours is a working window for one weekday
type Hours struct {
	Start  dateutil.Clock
	End    dateutil.Clock
	Closed bool
}

// Config controls slot generation
type Config struct {
	SlotInterval time.Duration
	GridStart    dateutil.Clock
	GridEnd      dateutil.Clock
	WorkStart    dateutil.Clock
	WorkEnd      dateutil.Clock

	// WeeklyHours overrides WorkStart/WorkEnd for specific weekdays
	WeeklyHours map[time.Weekday]Hours

	Locale string
}

// DefaultConfig returns the 08:00-22:00 grid in 15 minute slots with 09:30-19:00 working hours
func DefaultConfig() Config {
	return Config{
		SlotInterval: DefaultSlotInterval,
		GridStart:    DefaultGridStart,
		GridEnd:      DefaultGridEnd,
		WorkStart:    DefaultWorkStart,
		WorkEnd:      DefaultWorkEnd,
		Locale:       DefaultLocale,
	}
}

// Validate checks the interval and window ordering
func (c Config) Validate() error {
	if c.SlotInterval <= 0 {
		return fmt.Errorf("%w: slot interval must be positive, got %s", calendar.ErrInvalidArgument, c.SlotInterval)
	}
	if c.GridEnd.Minutes() < c.GridStart.Minutes() {
		return fmt.Errorf("%w: grid end %s before grid start %s", calendar.ErrInvalidArgument, c.GridEnd, c.GridStart)
	}
	if c.WorkEnd.Minutes() < c.WorkStart.Minutes() {
		return fmt.Errorf("%w: working hours end %s before start %s", calendar.ErrInvalidArgument, c.WorkEnd, c.WorkStart)
	}
	for day, h := range c.WeeklyHours {
		if !h.Closed && h.End.Minutes() < h.Start.Minutes() {
			return fmt.Errorf("%w: %s hours end %s before start %s", calendar.ErrInvalidArgument, day, h.End, h.Start)
		}
	}
	return nil
}

// HoursFor returns the working window that applies on the given day
func (c Config) HoursFor(day time.Time) Hours {
	if h, ok := c.WeeklyHours[day.Weekday()]; ok {
		return h
	}
	return Hours{Start: c.WorkStart, End: c.WorkEnd}
}
