package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingWriter struct {
	batches [][]Holiday
	err     error
}

func (w *recordingWriter) Upsert(_ context.Context, holidays []Holiday) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.batches = append(w.batches, holidays)
	return len(holidays), nil
}

type recordingInvalidator struct {
	months []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, year int, month time.Month) error {
	r.months = append(r.months, monthKey(year, month))
	return errors.New("redis down")
}

func TestSyncer_Run(t *testing.T) {
	var asked []string
	source := HolidayLookupFunc(func(_ context.Context, year int, month time.Month) ([]Holiday, error) {
		asked = append(asked, monthKey(year, month))
		if month == time.December {
			return []Holiday{{Date: time.Date(year, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas Day"}}, nil
		}
		return nil, nil
	})
	writer := &recordingWriter{}
	cache := &recordingInvalidator{}

	s := &Syncer{Source: source, Writer: writer, Cache: cache, Logger: zap.NewNop()}
	result, err := s.Run(context.Background(), 2024, time.November, 3)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"2024-11", "2024-12", "2025-01"}
	if len(asked) != len(want) {
		t.Fatalf("months asked = %v, want %v", asked, want)
	}
	for i := range want {
		if asked[i] != want[i] || cache.months[i] != want[i] {
			t.Errorf("month %d = %s/%s, want %s", i, asked[i], cache.months[i], want[i])
		}
	}
	if result.Months != 3 || result.Holidays != 1 || result.Stored != 1 {
		t.Errorf("result = %+v, want 3 months, 1 holiday, 1 stored", result)
	}
	// empty months are not written
	if len(writer.batches) != 1 {
		t.Errorf("writer batches = %d, want 1", len(writer.batches))
	}
}

func TestSyncer_Run_Errors(t *testing.T) {
	ok := HolidayLookupFunc(func(_ context.Context, year int, month time.Month) ([]Holiday, error) {
		return []Holiday{{Date: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), Name: "First"}}, nil
	})
	failing := HolidayLookupFunc(func(context.Context, int, time.Month) ([]Holiday, error) {
		return nil, errors.New("offline")
	})

	tests := []struct {
		name    string
		syncer  *Syncer
		month   time.Month
		months  int
		invalid bool
	}{
		{"invalid month", &Syncer{Source: ok}, 13, 1, true},
		{"zero months", &Syncer{Source: ok}, time.January, 0, true},
		{"source failure", &Syncer{Source: failing}, time.January, 1, false},
		{"writer failure", &Syncer{Source: ok, Writer: &recordingWriter{err: errors.New("db down")}}, time.January, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.syncer.Logger = zap.NewNop()
			_, err := tt.syncer.Run(context.Background(), 2024, tt.month, tt.months)
			if err == nil {
				t.Fatal("Run() expected error, got nil")
			}
			if got := errors.Is(err, ErrInvalidArgument); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidArgument) = %v, want %v", got, tt.invalid)
			}
		})
	}
}
