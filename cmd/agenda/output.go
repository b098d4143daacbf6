package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

func renderDay(w io.Writer, view *agenda.DayAgenda) {
	weekday := ""
	if iso := dateutil.ISOWeekday(view.Day); iso >= 1 && iso <= len(view.Weekdays) {
		weekday = view.Weekdays[iso-1].Name + ", "
	}
	fmt.Fprintf(w, "\n📅 %s%d %s %d\n", weekday, view.Day.Day(), view.Month.MonthName, view.Day.Year())
	if view.Holiday != "" {
		fmt.Fprintf(w, "   Non-working day: %s\n", view.Holiday)
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Time          | Status | Bookings")
	fmt.Fprintln(w, "----------------+--------+------------------------------")

	for _, s := range view.Slots {
		status := "closed"
		if s.Available {
			status = "open"
		}
		titles := make([]string, 0, len(s.Bookings))
		for _, b := range s.Bookings {
			titles = append(titles, fmt.Sprintf("%s (%s)", b.Booking.Title, b.Color))
		}
		fmt.Fprintf(w, "  %s-%s   | %-6s | %s\n",
			s.Start.Format("15:04"), s.End.Format("15:04"), status, strings.Join(titles, ", "))
	}

	fmt.Fprintf(w, "\n  Working slots:  %d of %d\n", agenda.WorkingSlots(view.Slots), len(view.Slots))
	fmt.Fprintf(w, "  Bookings:       %d\n", len(view.Bookings))
}

func renderMonth(w io.Writer, summary calendar.MonthSummary, headers []calendar.WeekdayHeader) {
	fmt.Fprintf(w, "\n📊 %s %d\n", summary.MonthName, summary.Year)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════")

	for _, h := range headers {
		fmt.Fprintf(w, " %3s ", h.Short)
	}
	fmt.Fprintln(w)

	first := dateutil.StartOfMonth(summary.Year, summary.Month, time.UTC)
	offset := dateutil.ISOWeekday(first) - 1
	fmt.Fprint(w, strings.Repeat("     ", offset))
	for day := 1; day <= summary.NumberOfDays; day++ {
		mark := " "
		if summary.Holidays.Contains(day) {
			mark = "*"
		}
		fmt.Fprintf(w, " %3d%s", day, mark)
		if (offset+day)%7 == 0 {
			fmt.Fprintln(w)
		}
	}
	if (offset+summary.NumberOfDays)%7 != 0 {
		fmt.Fprintln(w)
	}

	named := false
	for _, day := range summary.Holidays.Days() {
		label := summary.Holidays.Label(day)
		if label == calendar.WeekendLabel {
			continue
		}
		if !named {
			fmt.Fprintln(w, "\n  Holidays:")
			named = true
		}
		fmt.Fprintf(w, "   • %s: %s\n", first.AddDate(0, 0, day-1).Format("2006-01-02"), label)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Days:           %d\n", summary.NumberOfDays)
	fmt.Fprintf(w, "  Business days:  %d\n", summary.BusinessDays)
	fmt.Fprintf(w, "  Weekend days:   %d\n", summary.Weekends)
	fmt.Fprintf(w, "  Named holidays: %d\n", summary.NamedHolidays)
	fmt.Fprintln(w, "\nLegend: '*' = non-working day")
}
