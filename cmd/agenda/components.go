package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/internal/config"
	"github.com/username/grooming-agenda/internal/store/filestore"
	"github.com/username/grooming-agenda/internal/store/postgres"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// components holds everything a command may need; fields are nil when not configured
type components struct {
	cfg      *config.Config
	db       *bun.DB
	rdb      *redis.Client
	location *time.Location

	// source is the configured holiday calendar, cache the optional Redis layer in front of it
	source   calendar.HolidayLookup
	cache    *calendar.RedisCache
	holidays calendar.HolidayLookup

	holidayRepo *postgres.HolidayRepo
	bookingRepo *postgres.BookingRepo
	service     *agenda.Service
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func initializeComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	c := &components{cfg: cfg, location: cfg.Agenda.GetLocation()}

	needsDB := cfg.Calendar.Type == config.CalendarDatabase ||
		cfg.Bookings.Source == config.BookingsDatabase ||
		cfg.Database.URL != ""
	if needsDB {
		db, err := postgres.Open(cfg.Database.URL, postgres.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.GetConnMaxLifetime(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.db = db
		c.holidayRepo = postgres.NewHolidayRepo(db)
		c.bookingRepo = postgres.NewBookingRepo(db)
		logger.Info("Connected to database")
	}

	source, err := buildHolidayLookup(cfg, c.holidayRepo)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.source = source
	c.holidays = source

	if cfg.Redis.Addr != "" {
		c.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.rdb.Ping(ctx).Err(); err != nil {
			// the cache degrades to direct lookups, so this is not fatal
			logger.Warn("Redis unreachable, holiday cache will fall through", zap.Error(err))
		}
		c.cache = calendar.NewRedisCache(c.rdb, source, cfg.Redis.GetTTL(), cfg.Redis.Prefix, logger)
		c.holidays = c.cache
		logger.Info("Using Redis holiday cache", zap.String("addr", cfg.Redis.Addr))
	}

	bookings, err := buildBookingSource(cfg, c)
	if err != nil {
		c.Close()
		return nil, err
	}

	agendaCfg, err := cfg.AgendaConfig()
	if err != nil {
		c.Close()
		return nil, err
	}

	service, err := agenda.NewService(agendaCfg, c.holidays, bookings, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.service = service

	return c, nil
}

// Close releases database and Redis connections
func (c *components) Close() {
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if err := postgres.Close(c.db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}
}

func buildHolidayLookup(cfg *config.Config, repo *postgres.HolidayRepo) (calendar.HolidayLookup, error) {
	calType := cfg.Calendar.Type
	if calType == "" {
		calType = config.CalendarNone
	}

	switch calType {
	case config.CalendarNone:
		logger.Info("No holiday calendar configured, only weekends are non-working")
		return calendar.NoHolidays, nil

	case config.CalendarFile:
		logger.Info("Using file holiday calendar", zap.String("file", cfg.Calendar.File))
		fc := calendar.NewFileCalendar(cfg.Calendar.File, logger)
		if err := fc.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		return fc, nil

	case config.CalendarDatabase:
		logger.Info("Using database holiday calendar")
		return repo, nil

	case config.CalendarIsDayOff:
		logger.Info("Using isdayoff.ru calendar API")
		return newIsDayOffCalendar(cfg), nil

	case config.CalendarStatutory:
		logger.Info("Using statutory holiday rules", zap.String("country", cfg.Calendar.Country))
		return calendar.NewStatutoryCalendar(cfg.Calendar.Country)

	case config.CalendarComposite:
		logger.Info("Using isdayoff.ru calendar with file fallback", zap.String("file", cfg.Calendar.File))
		fallback := calendar.NewFileCalendar(cfg.Calendar.File, logger)
		composite := calendar.NewCompositeCalendar(newIsDayOffCalendar(cfg), fallback, logger)
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with API only",
				zap.Error(err))
		}
		return composite, nil

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", calType)
	}
}

func newIsDayOffCalendar(cfg *config.Config) *calendar.IsDayOffCalendar {
	client := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return calendar.NewIsDayOffCalendar(
		cfg.Calendar.FallbackURL,
		cfg.Calendar.GetCacheTTL(),
		logger,
		calendar.WithHTTPClient(client),
	)
}

func buildBookingSource(cfg *config.Config, c *components) (agenda.BookingSource, error) {
	switch cfg.Bookings.Source {
	case config.BookingsDatabase:
		logger.Info("Reading bookings from database")
		return c.bookingRepo, nil

	case config.BookingsFile, "":
		logger.Info("Reading bookings from file", zap.String("file", cfg.Bookings.File))
		fs := filestore.NewBookingStore(cfg.Bookings.File, c.location, logger)
		if err := fs.Load(); err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		return fs, nil

	default:
		return nil, fmt.Errorf("unknown bookings source: %s", cfg.Bookings.Source)
	}
}

// syncer builds the holiday sync. The database is written only when it is not
// itself the source.
func (c *components) syncer() *calendar.Syncer {
	s := &calendar.Syncer{Source: c.source, Logger: logger}
	if c.holidayRepo != nil && c.cfg.Calendar.Type != config.CalendarDatabase {
		s.Writer = c.holidayRepo
	}
	if c.cache != nil {
		s.Cache = c.cache
	}
	return s
}
