package calendar

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func countingLookup(holidays []Holiday, calls *int) HolidayLookup {
	return HolidayLookupFunc(func(context.Context, int, time.Month) ([]Holiday, error) {
		*calls++
		return holidays, nil
	})
}

func TestResolve_WeekendsOnly(t *testing.T) {
	set, err := Resolve(context.Background(), 2024, time.February, NoHolidays)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []int{3, 4, 10, 11, 17, 18, 24, 25}
	if got := set.Days(); !reflect.DeepEqual(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}
	for _, d := range want {
		if set.Label(d) != WeekendLabel {
			t.Errorf("Label(%d) = %q, want %q", d, set.Label(d), WeekendLabel)
		}
	}
}

func TestResolve_NamedHolidayOverridesWeekend(t *testing.T) {
	calls := 0
	lookup := countingLookup([]Holiday{
		{Date: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), Name: "Founders Day"}, // Saturday
		{Date: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), Name: "Valentine"},   // Wednesday
	}, &calls)

	set, err := Resolve(context.Background(), 2024, time.February, lookup)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("lookup calls = %d, want 1", calls)
	}
	if got := set.Label(3); got != "Founders Day" {
		t.Errorf("Label(3) = %q, want %q", got, "Founders Day")
	}
	if got := set.Label(14); got != "Valentine" {
		t.Errorf("Label(14) = %q, want %q", got, "Valentine")
	}
	if len(set) != 9 {
		t.Errorf("len(set) = %d, want 9", len(set))
	}
	if set.Contains(5) {
		t.Errorf("Contains(5) = true, want false")
	}
}

func TestResolve_IgnoresHolidaysOutsideMonth(t *testing.T) {
	calls := 0
	lookup := countingLookup([]Holiday{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Name: "Next month"},
		{Date: time.Date(2023, 2, 6, 0, 0, 0, 0, time.UTC), Name: "Last year"},
	}, &calls)

	set, err := Resolve(context.Background(), 2024, time.February, lookup)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(set) != 8 {
		t.Errorf("len(set) = %d, want 8", len(set))
	}
}

func TestResolve_Idempotent(t *testing.T) {
	calls := 0
	lookup := countingLookup([]Holiday{
		{Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas"},
	}, &calls)

	first, err := Resolve(context.Background(), 2025, time.December, lookup)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := Resolve(context.Background(), 2025, time.December, lookup)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve() not idempotent: %v vs %v", first, second)
	}
}

func TestResolve_InvalidMonth(t *testing.T) {
	for _, month := range []time.Month{0, 13, -1} {
		calls := 0
		_, err := Resolve(context.Background(), 2024, month, countingLookup(nil, &calls))
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Resolve(month=%d) error = %v, want ErrInvalidArgument", month, err)
		}
		if calls != 0 {
			t.Errorf("Resolve(month=%d) called lookup %d times, want 0", month, calls)
		}
	}
}

func TestResolve_LookupError(t *testing.T) {
	boom := errors.New("boom")
	lookup := HolidayLookupFunc(func(context.Context, int, time.Month) ([]Holiday, error) {
		return nil, boom
	})

	_, err := Resolve(context.Background(), 2024, time.May, lookup)
	if !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want wrapped %v", err, boom)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		year         int
		month        time.Month
		holidays     []Holiday
		wantDays     int
		wantWeekends int
		wantBusiness int
		wantName     string
	}{
		{
			name:         "February 2024 leap year",
			year:         2024,
			month:        time.February,
			wantDays:     29,
			wantWeekends: 8,
			wantBusiness: 21,
			wantName:     "February",
		},
		{
			name:         "February 2023",
			year:         2023,
			month:        time.February,
			wantDays:     28,
			wantWeekends: 8,
			wantBusiness: 20,
			wantName:     "February",
		},
		{
			name:  "December 2025 with Christmas",
			year:  2025,
			month: time.December,
			holidays: []Holiday{
				{Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), Name: "Christmas"},
			},
			wantDays:     31,
			wantWeekends: 8,
			wantBusiness: 22,
			wantName:     "December",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			summary, err := Summarize(context.Background(), tt.year, tt.month, countingLookup(tt.holidays, &calls), "en")
			if err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}

			if summary.NumberOfDays != tt.wantDays {
				t.Errorf("NumberOfDays = %d, want %d", summary.NumberOfDays, tt.wantDays)
			}
			if summary.Weekends != tt.wantWeekends {
				t.Errorf("Weekends = %d, want %d", summary.Weekends, tt.wantWeekends)
			}
			if summary.NamedHolidays != len(tt.holidays) {
				t.Errorf("NamedHolidays = %d, want %d", summary.NamedHolidays, len(tt.holidays))
			}
			if summary.BusinessDays != tt.wantBusiness {
				t.Errorf("BusinessDays = %d, want %d", summary.BusinessDays, tt.wantBusiness)
			}
			if summary.MonthName != tt.wantName {
				t.Errorf("MonthName = %q, want %q", summary.MonthName, tt.wantName)
			}
			if calls != 1 {
				t.Errorf("lookup calls = %d, want 1", calls)
			}
		})
	}
}

func TestSummarize_InvalidMonth(t *testing.T) {
	_, err := Summarize(context.Background(), 2024, 13, NoHolidays, "en")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Summarize() error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewMonthSummary_BusinessDaysNeverNegative(t *testing.T) {
	set := HolidaySet{}
	for d := 1; d <= 31; d++ {
		set[d] = "Closed"
	}
	set[32] = "Bogus"

	summary, err := NewMonthSummary(2024, time.February, set, "en")
	if err != nil {
		t.Fatalf("NewMonthSummary() error = %v", err)
	}
	if summary.BusinessDays != 0 {
		t.Errorf("BusinessDays = %d, want 0", summary.BusinessDays)
	}
}

func TestMonthName_Locale(t *testing.T) {
	tests := []struct {
		locale string
		month  time.Month
		want   string
	}{
		{"en", time.March, "March"},
		{"es", time.March, "Marzo"},
		{"es-MX", time.January, "Enero"},
		{"fr", time.March, "March"},
		{"", time.October, "October"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.want, func(t *testing.T) {
			if got := MonthName(tt.month, tt.locale); got != tt.want {
				t.Errorf("MonthName(%v, %q) = %q, want %q", tt.month, tt.locale, got, tt.want)
			}
		})
	}
}

func TestWeekdayHeaders(t *testing.T) {
	headers := WeekdayHeaders("es")
	if len(headers) != 7 {
		t.Fatalf("len(headers) = %d, want 7", len(headers))
	}
	if headers[0].ISO != 1 || headers[0].Short != "Lu" {
		t.Errorf("headers[0] = %+v, want ISO 1 short Lu", headers[0])
	}
	if headers[6].Name != "Domingo" {
		t.Errorf("headers[6].Name = %q, want %q", headers[6].Name, "Domingo")
	}

	en := WeekdayHeaders("en")
	if en[4].Name != "Friday" || en[4].Short != "Fr" {
		t.Errorf("en[4] = %+v, want Friday/Fr", en[4])
	}
}
