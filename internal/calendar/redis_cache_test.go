package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestHolidayCodecRoundTrip(t *testing.T) {
	in := []Holiday{
		{Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas"},
		{Date: time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), Name: "Boxing Day"},
	}

	raw, err := encodeHolidays(in)
	if err != nil {
		t.Fatalf("encodeHolidays() error = %v", err)
	}
	out, err := decodeHolidays(raw)
	if err != nil {
		t.Fatalf("decodeHolidays() error = %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if !out[i].Date.Equal(in[i].Date) || out[i].Name != in[i].Name {
			t.Errorf("out[%d] = %+v, want %+v", i, out[i], in[i])
		}
	}

	if _, err := decodeHolidays([]byte(`[{"date":"yesterday","name":"x"}]`)); err == nil {
		t.Error("decodeHolidays() expected error for malformed date, got nil")
	}
}

func TestRedisCache_UnreachableRedisFallsThrough(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	calls := 0
	inner := countingLookup([]Holiday{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Name: "New Year"},
	}, &calls)

	rc := NewRedisCache(rdb, inner, time.Minute, "", zap.NewNop())

	holidays, err := rc.HolidaysInMonth(context.Background(), 2025, time.January)
	if err != nil {
		t.Fatalf("HolidaysInMonth() error = %v", err)
	}
	if len(holidays) != 1 || holidays[0].Name != "New Year" {
		t.Errorf("holidays = %+v, want the inner lookup result", holidays)
	}
	if calls != 1 {
		t.Errorf("inner calls = %d, want 1", calls)
	}
}
