package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/username/grooming-agenda/internal/agenda"
)

var (
	ErrNotFound = errors.New("not found")
)

// Booking is a grooming appointment as stored
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Title            string     `bun:"title,notnull" json:"title"`
	CustomerName     string     `bun:"customer_name" json:"customer_name,omitempty"`
	PetName          string     `bun:"pet_name" json:"pet_name,omitempty"`
	Notes            string     `bun:"notes" json:"notes,omitempty"`
	StartTime        *time.Time `bun:"start_time" json:"start_time,omitempty"`
	EstimatedMinutes *int       `bun:"estimated_minutes" json:"estimated_minutes,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull" json:"updated_at"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

// Ref converts the row into the agenda's view of a booking
func (b Booking) Ref() agenda.BookingRef {
	return agenda.BookingRef{
		ID:                b.ID.String(),
		Title:             b.Title,
		Date:              b.StartTime,
		EstimatedDuration: b.EstimatedMinutes,
		Payload:           b,
	}
}

// PublicHoliday is a named non-working day
type PublicHoliday struct {
	bun.BaseModel `bun:"table:public_holidays"`

	Day       time.Time `bun:"day,pk,type:date"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func (h *PublicHoliday) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return nil
}
