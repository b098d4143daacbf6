package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/pkg/dateutil"
	"go.uber.org/zap"
)

// BookingRecord is one entry of the bookings file
type BookingRecord struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	CustomerName      string `json:"customer_name,omitempty"`
	PetName           string `json:"pet_name,omitempty"`
	Date              string `json:"date,omitempty"` // "2006-01-02 15:04:05"; empty when unscheduled
	EstimatedDuration *int   `json:"estimated_duration,omitempty"`
}

type bookingsFile struct {
	Bookings []BookingRecord `json:"bookings"`
}

// BookingStore reads bookings from a JSON file
type BookingStore struct {
	path     string
	location *time.Location
	logger   *zap.Logger

	mu       sync.RWMutex
	bookings []agenda.BookingRef
}

// NewBookingStore creates a store; zone-less dates are read in loc
func NewBookingStore(path string, loc *time.Location, logger *zap.Logger) *BookingStore {
	if loc == nil {
		loc = time.Local
	}
	return &BookingStore{path: path, location: loc, logger: logger}
}

// Load reads the bookings file. A missing file means no bookings.
func (s *BookingStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.bookings = nil
			s.mu.Unlock()
			s.logger.Info("Bookings file not found, starting empty", zap.String("file", s.path))
			return nil
		}
		return fmt.Errorf("failed to read bookings file: %w", err)
	}

	var file bookingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse bookings file: %w", err)
	}

	refs := make([]agenda.BookingRef, 0, len(file.Bookings))
	for i, rec := range file.Bookings {
		ref := agenda.BookingRef{
			ID:                rec.ID,
			Title:             rec.Title,
			EstimatedDuration: rec.EstimatedDuration,
			Payload:           rec,
		}
		if strings.TrimSpace(rec.Date) != "" {
			date, err := dateutil.ParseDateIn(rec.Date, s.location)
			if err != nil {
				return fmt.Errorf("booking %d (%s): %w", i, rec.ID, err)
			}
			ref.Date = &date
		}
		refs = append(refs, ref)
	}

	s.mu.Lock()
	s.bookings = refs
	s.mu.Unlock()

	s.logger.Info("Bookings loaded",
		zap.String("file", s.path),
		zap.Int("bookings", len(refs)))

	return nil
}

// FindBetween returns bookings starting in [from, to], ordered by start.
// Unscheduled bookings are never returned.
func (s *BookingStore) FindBetween(_ context.Context, from, to time.Time) ([]agenda.BookingRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []agenda.BookingRef
	for _, b := range s.bookings {
		if b.Date == nil || b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(*out[j].Date)
	})
	return out, nil
}
