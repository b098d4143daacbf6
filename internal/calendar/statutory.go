package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

// StatutoryCalendar implements HolidayLookup from rule-based public holidays.
// Holidays are reported on the day they are observed.
type StatutoryCalendar struct {
	calendar *cal.BusinessCalendar
}

// NewStatutoryCalendar builds the holiday set for a country code; only "us" is bundled
func NewStatutoryCalendar(country string) (*StatutoryCalendar, error) {
	calendar := cal.NewBusinessCalendar()

	switch strings.ToLower(country) {
	case "", "us":
		calendar.AddHoliday(
			us.NewYear,
			us.MlkDay,
			us.PresidentsDay,
			us.MemorialDay,
			us.Juneteenth,
			us.IndependenceDay,
			us.LaborDay,
			us.ThanksgivingDay,
			us.ChristmasDay,
		)
	default:
		return nil, fmt.Errorf("%w: no statutory holidays for country %q", ErrInvalidArgument, country)
	}

	return &StatutoryCalendar{calendar: calendar}, nil
}

// HolidaysInMonth returns the observed holidays of the month
func (sc *StatutoryCalendar) HolidaysInMonth(_ context.Context, year int, month time.Month) ([]Holiday, error) {
	if err := ValidateMonth(month); err != nil {
		return nil, err
	}

	var holidays []Holiday
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		date := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
		_, observed, h := sc.calendar.IsHoliday(date)
		if !observed || h == nil {
			continue
		}
		holidays = append(holidays, Holiday{Date: dateutil.StartOfDay(date), Name: h.Name})
	}
	return holidays, nil
}
