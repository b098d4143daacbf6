package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/username/grooming-agenda/internal/agenda")

// BookingSource loads bookings whose start lies in [from, to]
type BookingSource interface {
	FindBetween(ctx context.Context, from, to time.Time) ([]BookingRef, error)
}

// DayAgenda is everything needed to render one day
type DayAgenda struct {
	Day      time.Time
	Slots    []TimeSlot
	Month    calendar.MonthSummary
	Weekdays []calendar.WeekdayHeader
	Bookings []BookingRef
	// Holiday is the label of the day when it is not a working day
	Holiday string
}

// Service combines the slot generator with the holiday calendar and booking storage
type Service struct {
	generator *Generator
	holidays  calendar.HolidayLookup
	bookings  BookingSource
	locale    string
	logger    *zap.Logger
}

// NewService creates a new agenda service
func NewService(cfg Config, holidays calendar.HolidayLookup, bookings BookingSource, logger *zap.Logger) (*Service, error) {
	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	if holidays == nil {
		holidays = calendar.NoHolidays
	}
	locale := cfg.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	return &Service{
		generator: gen,
		holidays:  holidays,
		bookings:  bookings,
		locale:    locale,
		logger:    logger,
	}, nil
}

// DayView builds the slot grid and month summary for day.
// The holiday calendar is queried once and shared by both.
func (s *Service) DayView(ctx context.Context, day time.Time) (*DayAgenda, error) {
	ctx, span := tracer.Start(ctx, "agenda.DayView")
	defer span.End()
	span.SetAttributes(attribute.String("day", day.Format("2006-01-02")))

	from := dateutil.StartOfDay(day)
	to := dateutil.EndOfDay(day)

	var bookings []BookingRef
	if s.bookings != nil {
		var err error
		bookings, err = s.bookings.FindBetween(ctx, from, to)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
	}

	holidays, err := calendar.Resolve(ctx, day.Year(), day.Month(), s.holidays)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	slots, err := s.generator.Generate(from, bookings, holidays)
	if err != nil {
		return nil, err
	}

	month, err := calendar.NewMonthSummary(day.Year(), day.Month(), holidays, s.locale)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Day agenda built",
		zap.Time("date", from),
		zap.Int("bookings", len(bookings)),
		zap.Int("slots", len(slots)),
		zap.Int("working_slots", WorkingSlots(slots)))

	return &DayAgenda{
		Day:      from,
		Slots:    slots,
		Month:    month,
		Weekdays: calendar.WeekdayHeaders(s.locale),
		Bookings: bookings,
		Holiday:  holidays.Label(day.Day()),
	}, nil
}

// MonthView summarizes a month
func (s *Service) MonthView(ctx context.Context, year int, month time.Month) (calendar.MonthSummary, error) {
	ctx, span := tracer.Start(ctx, "agenda.MonthView")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year), attribute.Int("month", int(month)))

	summary, err := calendar.Summarize(ctx, year, month, s.holidays, s.locale)
	if err != nil {
		span.RecordError(err)
		return calendar.MonthSummary{}, err
	}

	s.logger.Debug("Month summary built",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("business_days", summary.BusinessDays))

	return summary, nil
}

// Locale returns the locale used for month and weekday names
func (s *Service) Locale() string {
	return s.locale
}
