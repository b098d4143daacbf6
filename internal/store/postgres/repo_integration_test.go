package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/internal/store"
	"github.com/username/grooming-agenda/migrations"
)

func TestPostgresIntegration_BookingsAndHolidays(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("AGENDA_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("AGENDA_TEST_DATABASE_URL not set")
	}

	db, err := Open(databaseURL, PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})

	schema := "agenda_test_" + randomHex(t, 8)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = db.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewRaw("SET LOCAL search_path TO " + schema).Exec(ctx); err != nil {
			return err
		}
		if _, err := Migrate(ctx, tx, migrations.FS); err != nil {
			return err
		}

		bookings := NewBookingRepo(tx)
		day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		start := day.Add(10 * time.Hour)
		thirty := 30

		created, err := bookings.Create(ctx, store.Booking{
			Title:            "Bath and trim",
			PetName:          "Rex",
			StartTime:        &start,
			EstimatedMinutes: &thirty,
		})
		if err != nil {
			return err
		}
		if created.ID == uuid.Nil {
			return fmt.Errorf("created id is nil")
		}
		if _, err := bookings.Create(ctx, store.Booking{Title: "Unscheduled"}); err != nil {
			return err
		}
		nextDay := day.AddDate(0, 0, 1).Add(9 * time.Hour)
		if _, err := bookings.Create(ctx, store.Booking{Title: "Tomorrow", StartTime: &nextDay}); err != nil {
			return err
		}

		refs, err := bookings.FindBetween(ctx, day, day.Add(24*time.Hour-time.Second))
		if err != nil {
			return err
		}
		if len(refs) != 1 {
			return fmt.Errorf("len(refs) = %d, want 1", len(refs))
		}
		if refs[0].ID != created.ID.String() || refs[0].EstimatedDuration == nil || *refs[0].EstimatedDuration != 30 {
			return fmt.Errorf("ref = %+v, want the 10:00 booking", refs[0])
		}

		if _, err := bookings.Get(ctx, uuid.MustParse("00000000-0000-0000-0000-000000000999")); !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("Get(missing) err = %v, want %v", err, store.ErrNotFound)
		}
		if err := bookings.Delete(ctx, created.ID); err != nil {
			return err
		}

		holidays := NewHolidayRepo(tx)
		n, err := holidays.Upsert(ctx, []calendar.Holiday{
			{Date: time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), Name: "Saint Joseph"},
			{Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Name: "Easter Monday"},
		})
		if err != nil {
			return err
		}
		if n != 2 {
			return fmt.Errorf("upserted = %d, want 2", n)
		}
		if _, err := holidays.Upsert(ctx, []calendar.Holiday{
			{Date: time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), Name: "San José"},
		}); err != nil {
			return err
		}

		march, err := holidays.HolidaysInMonth(ctx, 2024, time.March)
		if err != nil {
			return err
		}
		if len(march) != 1 || march[0].Name != "San José" || march[0].Date.Day() != 19 {
			return fmt.Errorf("march = %+v, want one renamed holiday on the 19th", march)
		}

		summary, err := calendar.Summarize(ctx, 2024, time.March, holidays, "es")
		if err != nil {
			return err
		}
		if summary.BusinessDays != 20 {
			return fmt.Errorf("BusinessDays = %d, want 20", summary.BusinessDays)
		}

		joseph := time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC)
		if err := holidays.Delete(ctx, joseph); err != nil {
			return fmt.Errorf("Delete() error = %v", err)
		}
		if err := holidays.Delete(ctx, joseph); !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("Delete(again) err = %v, want %v", err, store.ErrNotFound)
		}
		if march, err = holidays.HolidaysInMonth(ctx, 2024, time.March); err != nil || len(march) != 0 {
			return fmt.Errorf("march after delete = %+v, %v; want empty", march, err)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("tx error: %v", err)
	}
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}
