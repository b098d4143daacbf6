package postgres

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/internal/store"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

type HolidayRepo struct {
	db bun.IDB
}

func NewHolidayRepo(db bun.IDB) *HolidayRepo {
	return &HolidayRepo{db: db}
}

// HolidaysInMonth implements calendar.HolidayLookup
func (r *HolidayRepo) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]calendar.Holiday, error) {
	if err := calendar.ValidateMonth(month); err != nil {
		return nil, err
	}

	first := dateutil.StartOfMonth(year, month, time.UTC)
	var rows []store.PublicHoliday
	err := r.db.NewSelect().
		Model(&rows).
		Where("day >= ?", first).
		Where("day < ?", first.AddDate(0, 1, 0)).
		OrderExpr("day ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]calendar.Holiday, len(rows))
	for i, h := range rows {
		out[i] = calendar.Holiday{
			Date: time.Date(h.Day.Year(), h.Day.Month(), h.Day.Day(), 0, 0, 0, 0, time.UTC),
			Name: h.Name,
		}
	}
	return out, nil
}

// Upsert stores holidays, replacing the name of days already present
func (r *HolidayRepo) Upsert(ctx context.Context, holidays []calendar.Holiday) (int, error) {
	if len(holidays) == 0 {
		return 0, nil
	}

	rows := make([]store.PublicHoliday, len(holidays))
	for i, h := range holidays {
		rows[i] = store.PublicHoliday{Day: dateutil.StartOfDay(h.Date), Name: h.Name}
	}

	res, err := r.db.NewInsert().
		Model(&rows).
		On("CONFLICT (day) DO UPDATE").
		Set("name = EXCLUDED.name").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *HolidayRepo) Delete(ctx context.Context, day time.Time) error {
	res, err := r.db.NewDelete().
		Model((*store.PublicHoliday)(nil)).
		Where("day = ?", dateutil.StartOfDay(day)).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
