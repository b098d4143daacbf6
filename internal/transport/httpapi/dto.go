package httpapi

import (
	"time"

	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

// SlotBookingDTO is a booking as rendered inside a slot
type SlotBookingDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// SlotDTO is one cell of the day grid
type SlotDTO struct {
	Key       string           `json:"key"`
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Available bool             `json:"available"`
	Bookings  []SlotBookingDTO `json:"bookings"`
}

// BookingDTO is a booking of the requested day
type BookingDTO struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Start             string `json:"start,omitempty"`
	EstimatedDuration *int   `json:"estimated_duration,omitempty"`
}

// HolidayDTO is one non-working day of a month
type HolidayDTO struct {
	Day   int    `json:"day"`
	Date  string `json:"date"`
	Label string `json:"label"`
}

// MonthDTO is the month summary response
type MonthDTO struct {
	Year          int          `json:"year"`
	Month         int          `json:"month"`
	MonthName     string       `json:"month_name"`
	NumberOfDays  int          `json:"number_of_days"`
	BusinessDays  int          `json:"business_days"`
	Weekends      int          `json:"weekends"`
	NamedHolidays int          `json:"named_holidays"`
	Holidays      []HolidayDTO `json:"holidays"`
}

// DayDTO is the day agenda response
type DayDTO struct {
	Date         string                   `json:"date"`
	Holiday      string                   `json:"holiday,omitempty"`
	WorkingSlots int                      `json:"working_slots"`
	Slots        []SlotDTO                `json:"slots"`
	Bookings     []BookingDTO             `json:"bookings"`
	Month        MonthDTO                 `json:"month"`
	Weekdays     []calendar.WeekdayHeader `json:"weekdays"`
}

const clockLayout = "15:04"

func newDayDTO(day *agenda.DayAgenda) DayDTO {
	out := DayDTO{
		Date:         day.Day.Format("2006-01-02"),
		Holiday:      day.Holiday,
		WorkingSlots: agenda.WorkingSlots(day.Slots),
		Slots:        make([]SlotDTO, 0, len(day.Slots)),
		Bookings:     make([]BookingDTO, 0, len(day.Bookings)),
		Month:        newMonthDTO(day.Month),
		Weekdays:     day.Weekdays,
	}

	for _, s := range day.Slots {
		slot := SlotDTO{
			Key:       s.Key(),
			Start:     s.Start.Format(clockLayout),
			End:       s.End.Format(clockLayout),
			Available: s.Available,
			Bookings:  make([]SlotBookingDTO, 0, len(s.Bookings)),
		}
		for _, b := range s.Bookings {
			slot.Bookings = append(slot.Bookings, SlotBookingDTO{
				ID:    b.Booking.ID,
				Title: b.Booking.Title,
				Color: b.Color,
			})
		}
		out.Slots = append(out.Slots, slot)
	}

	for _, b := range day.Bookings {
		dto := BookingDTO{ID: b.ID, Title: b.Title, EstimatedDuration: b.EstimatedDuration}
		if b.Date != nil {
			dto.Start = b.Date.Format(dateutil.DateTimeLayout)
		}
		out.Bookings = append(out.Bookings, dto)
	}

	return out
}

func newMonthDTO(m calendar.MonthSummary) MonthDTO {
	return MonthDTO{
		Year:          m.Year,
		Month:         int(m.Month),
		MonthName:     m.MonthName,
		NumberOfDays:  m.NumberOfDays,
		BusinessDays:  m.BusinessDays,
		Weekends:      m.Weekends,
		NamedHolidays: m.NamedHolidays,
		Holidays:      newHolidayDTOs(m.Year, m.Month, m.Holidays),
	}
}

func newHolidayDTOs(year int, month time.Month, set calendar.HolidaySet) []HolidayDTO {
	days := set.Days()
	out := make([]HolidayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, HolidayDTO{
			Day:   d,
			Date:  time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Label: set.Label(d),
		})
	}
	return out
}
