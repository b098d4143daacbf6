package dateutil

import (
	"fmt"
	"time"
)

// DateTimeLayout is the layout used for slot keys and booking timestamps
const DateTimeLayout = "2006-01-02 15:04:05"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns the last second of the day (23:59:59) for the given date
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location())
}

// StartOfMonth returns the first day of the month at 00:00
func StartOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the real number of days in the month (28..31)
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ISOWeekday returns the weekday numbered 1 (Monday) through 7 (Sunday)
func ISOWeekday(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return weekday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	return ISOWeekday(date) >= 6
}

// At returns the given day at hour:minute, keeping the day's location
func At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// ParseDateIn parses date string in various formats, interpreting zone-less values in loc
func ParseDateIn(dateStr string, loc *time.Location) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		DateTimeLayout,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// Clock is a wall-clock time of day with minute precision
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h)
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid clock %q: out of range", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// On returns the clock time on the given day
func (c Clock) On(day time.Time) time.Time {
	return At(day, c.Hour, c.Minute)
}

// Minutes returns minutes since midnight
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
