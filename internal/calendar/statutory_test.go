package calendar

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatutoryCalendar_US(t *testing.T) {
	sc, err := NewStatutoryCalendar("us")
	if err != nil {
		t.Fatalf("NewStatutoryCalendar() error = %v", err)
	}

	tests := []struct {
		name    string
		year    int
		month   time.Month
		wantDay int
	}{
		{"Independence Day on a Friday", 2025, time.July, 4},
		{"Thanksgiving 2025", 2025, time.November, 27},
		{"Christmas 2025", 2025, time.December, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holidays, err := sc.HolidaysInMonth(context.Background(), tt.year, tt.month)
			if err != nil {
				t.Fatalf("HolidaysInMonth() error = %v", err)
			}

			found := false
			for _, h := range holidays {
				if h.Date.Day() == tt.wantDay {
					found = true
					if h.Name == "" {
						t.Errorf("holiday on day %d has empty name", tt.wantDay)
					}
				}
			}
			if !found {
				t.Errorf("holiday on day %d not found in %+v", tt.wantDay, holidays)
			}
		})
	}
}

func TestStatutoryCalendar_ObservedDate(t *testing.T) {
	sc, err := NewStatutoryCalendar("US")
	if err != nil {
		t.Fatalf("NewStatutoryCalendar() error = %v", err)
	}

	// July 4th 2026 is a Saturday, observed on Friday the 3rd
	holidays, err := sc.HolidaysInMonth(context.Background(), 2026, time.July)
	if err != nil {
		t.Fatalf("HolidaysInMonth() error = %v", err)
	}
	if len(holidays) != 1 || holidays[0].Date.Day() != 3 {
		t.Errorf("holidays = %+v, want a single holiday on day 3", holidays)
	}
}

func TestStatutoryCalendar_UnknownCountry(t *testing.T) {
	if _, err := NewStatutoryCalendar("atlantis"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewStatutoryCalendar() error = %v, want ErrInvalidArgument", err)
	}
}
