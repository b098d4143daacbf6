package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options configures the router middleware
type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
	RequestTimeout     time.Duration
}

// NewRouter builds the gin engine with middleware and all routes registered
func NewRouter(h *Handler, opts Options, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware(opts.AllowedOrigins))
	r.Use(RateLimitMiddleware(opts.RateLimitPerMinute, opts.RateLimitBurst, logger))
	r.Use(timeoutMiddleware(opts.RequestTimeout))

	RegisterHealthRoute(r)
	RegisterCalendarRoutes(r, h)
	RegisterAgendaRoutes(r, h)
	if h.bookings != nil {
		RegisterBookingRoutes(r, h)
	}

	return r
}

// RegisterHealthRoute sets up the liveness probe
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterAgendaRoutes sets up the day grid endpoint
func RegisterAgendaRoutes(r *gin.Engine, h *Handler) {
	group := r.Group("/api/agenda")
	{
		group.GET("/day", h.GetDay)
	}
}

// RegisterCalendarRoutes sets up month and holiday endpoints
func RegisterCalendarRoutes(r *gin.Engine, h *Handler) {
	group := r.Group("/api/calendar")
	{
		group.GET("/month", h.GetMonth)
		group.GET("/holidays", h.GetHolidays)
	}
}

// RegisterBookingRoutes sets up booking management endpoints
func RegisterBookingRoutes(r *gin.Engine, h *Handler) {
	group := r.Group("/api/bookings")
	{
		group.POST("", h.CreateBooking)
		group.GET("/:id", h.GetBooking)
		group.DELETE("/:id", h.DeleteBooking)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
