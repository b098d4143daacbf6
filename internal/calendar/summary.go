package calendar

import (
	"context"
	"time"

	"github.com/username/grooming-agenda/pkg/dateutil"
)

// MonthSummary represents calendar statistics for a month
type MonthSummary struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	MonthName     string     `json:"month_name"`
	NumberOfDays  int        `json:"number_of_days"`
	Holidays      HolidaySet `json:"holidays"`
	BusinessDays  int        `json:"business_days"`
	Weekends      int        `json:"weekends"`
	NamedHolidays int        `json:"named_holidays"`
}

// Summarize resolves the month's holidays through lookup and aggregates them
func Summarize(ctx context.Context, year int, month time.Month, lookup HolidayLookup, locale string) (MonthSummary, error) {
	set, err := Resolve(ctx, year, month, lookup)
	if err != nil {
		return MonthSummary{}, err
	}
	return NewMonthSummary(year, month, set, locale)
}

// NewMonthSummary aggregates an already-resolved holiday set
func NewMonthSummary(year int, month time.Month, set HolidaySet, locale string) (MonthSummary, error) {
	if err := ValidateMonth(month); err != nil {
		return MonthSummary{}, err
	}

	days := dateutil.DaysInMonth(year, month)

	summary := MonthSummary{
		Year:         year,
		Month:        month,
		MonthName:    MonthName(month, locale),
		NumberOfDays: days,
		Holidays:     set,
	}

	for _, label := range set {
		if label == WeekendLabel {
			summary.Weekends++
		} else {
			summary.NamedHolidays++
		}
	}

	summary.BusinessDays = days - len(set)
	if summary.BusinessDays < 0 {
		summary.BusinessDays = 0
	}

	return summary, nil
}
