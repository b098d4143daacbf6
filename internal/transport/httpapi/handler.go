package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/internal/store"
	"github.com/username/grooming-agenda/pkg/dateutil"
	"go.uber.org/zap"
)

// AgendaService is the read side the handlers need
type AgendaService interface {
	DayView(ctx context.Context, day time.Time) (*agenda.DayAgenda, error)
	MonthView(ctx context.Context, year int, month time.Month) (calendar.MonthSummary, error)
}

// BookingWriter manages stored bookings. Only database-backed sources provide one.
type BookingWriter interface {
	Create(ctx context.Context, b store.Booking) (store.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (store.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler serves the agenda endpoints
type Handler struct {
	service  AgendaService
	bookings BookingWriter
	location *time.Location
	logger   *zap.Logger
}

// NewHandler creates a handler; bookings may be nil
func NewHandler(service AgendaService, bookings BookingWriter, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, bookings: bookings, location: loc, logger: logger}
}

// GetDay handles GET /api/agenda/day?date=YYYY-MM-DD. Without a date, today is used.
func (h *Handler) GetDay(c *gin.Context) {
	day := dateutil.StartOfDay(time.Now().In(h.location))
	if raw := c.Query("date"); raw != "" {
		parsed, err := dateutil.ParseDateIn(raw, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "message": err.Error()})
			return
		}
		day = parsed
	}

	result, err := h.service.DayView(c.Request.Context(), day)
	if err != nil {
		h.fail(c, "Failed to build day agenda", err)
		return
	}

	c.JSON(http.StatusOK, newDayDTO(result))
}

// GetMonth handles GET /api/calendar/month?year=YYYY&month=M
func (h *Handler) GetMonth(c *gin.Context) {
	year, month, ok := h.monthParams(c)
	if !ok {
		return
	}

	summary, err := h.service.MonthView(c.Request.Context(), year, month)
	if err != nil {
		h.fail(c, "Failed to summarize month", err)
		return
	}

	c.JSON(http.StatusOK, newMonthDTO(summary))
}

// GetHolidays handles GET /api/calendar/holidays?year=YYYY&month=M
func (h *Handler) GetHolidays(c *gin.Context) {
	year, month, ok := h.monthParams(c)
	if !ok {
		return
	}

	summary, err := h.service.MonthView(c.Request.Context(), year, month)
	if err != nil {
		h.fail(c, "Failed to resolve holidays", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holidays": newHolidayDTOs(year, month, summary.Holidays)})
}

type createBookingRequest struct {
	Title             string `json:"title" binding:"required"`
	CustomerName      string `json:"customer_name"`
	PetName           string `json:"pet_name"`
	Notes             string `json:"notes"`
	Start             string `json:"start"`
	EstimatedDuration *int   `json:"estimated_duration"`
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	if req.EstimatedDuration != nil && *req.EstimatedDuration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estimated_duration must be positive"})
		return
	}

	b := store.Booking{
		Title:            req.Title,
		CustomerName:     req.CustomerName,
		PetName:          req.PetName,
		Notes:            req.Notes,
		EstimatedMinutes: req.EstimatedDuration,
	}
	if req.Start != "" {
		start, err := dateutil.ParseDateIn(req.Start, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start", "message": err.Error()})
			return
		}
		b.StartTime = &start
	}

	created, err := h.bookings.Create(c.Request.Context(), b)
	if err != nil {
		h.fail(c, "Failed to create booking", err)
		return
	}

	h.logger.Info("Booking created", zap.String("id", created.ID.String()))
	c.JSON(http.StatusCreated, gin.H{"booking": created})
}

// GetBooking handles GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := h.bookings.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to load booking", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// DeleteBooking handles DELETE /api/bookings/:id
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete booking", err)
		return
	}

	h.logger.Info("Booking deleted", zap.String("id", id.String()))
	c.Status(http.StatusNoContent)
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return uuid.Nil, false
	}
	return id, true
}

// monthParams reads year and month, defaulting to the current month
func (h *Handler) monthParams(c *gin.Context) (int, time.Month, bool) {
	now := time.Now().In(h.location)
	year, month := now.Year(), now.Month()

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return 0, 0, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return 0, 0, false
		}
		// range is validated by the calendar
		month = time.Month(v)
	}

	return year, month, true
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, calendar.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg, "message": err.Error()})
}
