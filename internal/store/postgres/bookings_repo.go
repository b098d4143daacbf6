package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/internal/store"
)

type BookingRepo struct {
	db bun.IDB
}

func NewBookingRepo(db bun.IDB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b store.Booking) (store.Booking, error) {
	if _, err := r.db.NewInsert().Model(&b).Exec(ctx); err != nil {
		return store.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (store.Booking, error) {
	var b store.Booking
	err := r.db.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Booking{}, store.ErrNotFound
	}
	if err != nil {
		return store.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*store.Booking)(nil)).
		Where("id = ?", id).
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

// List returns bookings starting in [from, to], oldest first
func (r *BookingRepo) List(ctx context.Context, from, to time.Time) ([]store.Booking, error) {
	var rows []store.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("start_time >= ?", from).
		Where("start_time <= ?", to).
		OrderExpr("start_time ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBetween implements agenda.BookingSource
func (r *BookingRepo) FindBetween(ctx context.Context, from, to time.Time) ([]agenda.BookingRef, error) {
	rows, err := r.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	refs := make([]agenda.BookingRef, len(rows))
	for i, b := range rows {
		refs[i] = b.Ref()
	}
	return refs, nil
}
