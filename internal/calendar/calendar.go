package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/username/grooming-agenda/pkg/dateutil"
)

// WeekendLabel is the label given to Saturdays and Sundays without a named holiday
const WeekendLabel = "Weekend"

// ErrInvalidArgument is returned for out-of-range months, intervals and malformed inputs
var ErrInvalidArgument = errors.New("invalid argument")

// Holiday represents a named public holiday
type Holiday struct {
	Date time.Time
	Name string
}

// HolidayLookup returns the named holidays that fall in a month
type HolidayLookup interface {
	HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error)
}

// HolidayLookupFunc adapts a function to HolidayLookup
type HolidayLookupFunc func(ctx context.Context, year int, month time.Month) ([]Holiday, error)

// HolidaysInMonth calls f(ctx, year, month)
func (f HolidayLookupFunc) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	return f(ctx, year, month)
}

// NoHolidays is a lookup that never reports named holidays
var NoHolidays HolidayLookup = HolidayLookupFunc(func(context.Context, int, time.Month) ([]Holiday, error) {
	return nil, nil
})

// HolidaySet maps day-of-month to a label ("Weekend" or the holiday name)
type HolidaySet map[int]string

// Contains reports whether the day of month is a non-working day
func (s HolidaySet) Contains(day int) bool {
	_, ok := s[day]
	return ok
}

// Label returns the label for the day, or "" when it is a working day
func (s HolidaySet) Label(day int) string {
	return s[day]
}

// Days returns the non-working days in ascending order
func (s HolidaySet) Days() []int {
	days := make([]int, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// ValidateMonth checks that month is within 1..12
func ValidateMonth(month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d out of range 1..12", ErrInvalidArgument, int(month))
	}
	return nil
}

// Resolve builds the month's non-working days: every Saturday and Sunday plus
// the named holidays returned by lookup. A named holiday replaces the weekend label.
// lookup is called exactly once, after the month is validated.
func Resolve(ctx context.Context, year int, month time.Month, lookup HolidayLookup) (HolidaySet, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}

	set := WeekendDays(year, month)

	if lookup == nil {
		return set, nil
	}

	holidays, err := lookup.HolidaysInMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("holiday lookup %d-%02d: %w", year, int(month), err)
	}

	for _, h := range holidays {
		if h.Date.Year() != year || h.Date.Month() != month {
			continue
		}
		set[h.Date.Day()] = h.Name
	}

	return set, nil
}

// WeekendDays returns the Saturdays and Sundays of the month labelled "Weekend"
func WeekendDays(year int, month time.Month) HolidaySet {
	days := dateutil.DaysInMonth(year, month)
	set := make(HolidaySet, days/3)
	for day := 1; day <= days; day++ {
		if dateutil.IsWeekend(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)) {
			set[day] = WeekendLabel
		}
	}
	return set
}
