package agenda

import (
	"time"

	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

// BookingRef is the slice of a booking the agenda needs. Everything else rides in Payload.
type BookingRef struct {
	ID    string
	Title string
	// Date is the booking start; nil bookings are skipped
	Date *time.Time
	// EstimatedDuration in minutes; nil means one slot interval
	EstimatedDuration *int
	Payload           any
}

// End returns Date plus the estimated duration, or the fallback when none is set
func (b BookingRef) End(fallback time.Duration) time.Time {
	d := fallback
	if b.EstimatedDuration != nil {
		d = time.Duration(*b.EstimatedDuration) * time.Minute
	}
	return b.Date.Add(d)
}

// SlotBooking is a booking attached to a slot with its display color
type SlotBooking struct {
	Booking BookingRef
	Color   string
}

// TimeSlot is one cell of the day grid
type TimeSlot struct {
	Start     time.Time
	End       time.Time
	Bookings  []SlotBooking
	Available bool
}

// Key identifies the slot by its start, "2006-01-02 15:04:05"
func (s TimeSlot) Key() string {
	return s.Start.Format(dateutil.DateTimeLayout)
}

// Generator builds day grids; it is immutable and safe for concurrent use
type Generator struct {
	cfg Config
}

// NewGenerator validates cfg and returns a Generator
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Generate returns the slots covering [GridStart, GridEnd] on day.
//
// A booking attaches to a slot only if it covers the whole slot:
// booking start <= slot start and booking end >= slot end. A slot is
// available when its start lies inside the day's working hours (both ends
// inclusive) and the day is not in holidays. The last slot is clamped to
// GridEnd, so a grid whose length is a multiple of the interval ends with a
// zero-length slot at GridEnd.
func (g *Generator) Generate(day time.Time, bookings []BookingRef, holidays calendar.HolidaySet) ([]TimeSlot, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	interval := g.cfg.SlotInterval
	windowStart := g.cfg.GridStart.On(day)
	windowEnd := g.cfg.GridEnd.On(day)

	hours := g.cfg.HoursFor(day)
	workStart := hours.Start.On(day)
	workEnd := hours.End.On(day)
	dayOpen := !hours.Closed && !holidays.Contains(day.Day())

	slots := make([]TimeSlot, 0, int(windowEnd.Sub(windowStart)/interval)+1)

	for cursor := windowStart; !cursor.After(windowEnd); cursor = cursor.Add(interval) {
		slotEnd := cursor.Add(interval)
		if slotEnd.After(windowEnd) {
			slotEnd = windowEnd
		}

		slot := TimeSlot{
			Start:     cursor,
			End:       slotEnd,
			Bookings:  []SlotBooking{},
			Available: dayOpen && !cursor.Before(workStart) && !cursor.After(workEnd),
		}

		for i, b := range bookings {
			if b.Date == nil {
				continue
			}
			if !b.Date.After(cursor) && !b.End(interval).Before(slotEnd) {
				slot.Bookings = append(slot.Bookings, SlotBooking{Booking: b, Color: ColorFor(i)})
			}
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// WorkingSlots counts available slots
func WorkingSlots(slots []TimeSlot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}
