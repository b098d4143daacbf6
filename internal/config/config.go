package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/grooming-agenda/internal/agenda"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

// Calendar source types
const (
	CalendarFile      = "file"
	CalendarDatabase  = "database"
	CalendarIsDayOff  = "isdayoff"
	CalendarStatutory = "statutory"
	CalendarComposite = "composite"
	CalendarNone      = "none"
)

// Booking source types
const (
	BookingsFile     = "file"
	BookingsDatabase = "database"
)

// Config represents application configuration
type Config struct {
	Agenda    AgendaConfig    `mapstructure:"agenda"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Bookings  BookingsConfig  `mapstructure:"bookings"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// AgendaConfig represents the slot grid configuration
type AgendaConfig struct {
	SlotInterval      string                 `mapstructure:"slot_interval"`
	GridStart         string                 `mapstructure:"grid_start"`
	GridEnd           string                 `mapstructure:"grid_end"`
	WorkingHoursStart string                 `mapstructure:"working_hours_start"`
	WorkingHoursEnd   string                 `mapstructure:"working_hours_end"`
	Locale            string                 `mapstructure:"locale"`
	Timezone          string                 `mapstructure:"timezone"`
	WeeklyHours       map[string]HoursConfig `mapstructure:"weekly_hours"` // key: weekday name, e.g. "friday"
}

// HoursConfig overrides working hours for one weekday
type HoursConfig struct {
	Start  string `mapstructure:"start"`
	End    string `mapstructure:"end"`
	Closed bool   `mapstructure:"closed"`
}

// CalendarConfig represents the holiday calendar configuration
type CalendarConfig struct {
	Type        string `mapstructure:"type"`
	File        string `mapstructure:"file"`         // holiday catalog for "file" and "composite"
	FallbackURL string `mapstructure:"fallback_url"` // xmlcalendar.ru URL for "isdayoff"
	CacheTTL    string `mapstructure:"cache_ttl"`
	Country     string `mapstructure:"country"` // for "statutory"
	SyncAt      string `mapstructure:"sync_at"` // daily refresh time "HH:MM" for serve; empty disables
	SyncMonths  int    `mapstructure:"sync_months"`
}

// BookingsConfig represents where bookings are read from
type BookingsConfig struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
}

// DatabaseConfig represents PostgreSQL configuration
type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

// RedisConfig represents the optional holiday cache
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      string `mapstructure:"ttl"`
	Prefix   string `mapstructure:"prefix"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr               string   `mapstructure:"addr"`
	RequestTimeout     string   `mapstructure:"request_timeout"`
	ShutdownTimeout    string   `mapstructure:"shutdown_timeout"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int      `mapstructure:"rate_limit_burst"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// TelemetryConfig represents OpenTelemetry tracing configuration
type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("agenda.slot_interval", "15m")
	v.SetDefault("agenda.grid_start", "08:00")
	v.SetDefault("agenda.grid_end", "22:00")
	v.SetDefault("agenda.working_hours_start", "09:30")
	v.SetDefault("agenda.working_hours_end", "19:00")
	v.SetDefault("agenda.locale", agenda.DefaultLocale)
	v.SetDefault("calendar.type", CalendarNone)
	v.SetDefault("calendar.file", "")
	v.SetDefault("calendar.fallback_url", "")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calendar.country", "us")
	v.SetDefault("calendar.sync_at", "")
	v.SetDefault("calendar.sync_months", 2)
	v.SetDefault("bookings.source", BookingsFile)
	v.SetDefault("bookings.file", "bookings.json")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.ttl", "24h")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.rate_limit_per_minute", 120)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("telemetry.service_name", "grooming-agenda")
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. An empty path searches the default
// locations and tolerates a missing file.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.grooming-agenda")
		v.AddConfigPath("/etc/grooming-agenda")
	}

	// AGENDA_DATABASE_URL overrides database.url, and so on
	v.SetEnvPrefix("AGENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.AgendaConfig(); err != nil {
		return err
	}

	switch c.Calendar.Type {
	case "", CalendarNone, CalendarStatutory:
	case CalendarFile:
		if c.Calendar.File == "" {
			return fmt.Errorf("calendar.file is required for file type")
		}
	case CalendarIsDayOff:
	case CalendarComposite:
		if c.Calendar.File == "" {
			return fmt.Errorf("calendar.file is required as fallback for composite type")
		}
	case CalendarDatabase:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for database calendar")
		}
	default:
		return fmt.Errorf("calendar.type must be one of none, file, database, isdayoff, statutory, composite; got '%s'", c.Calendar.Type)
	}

	if c.Calendar.SyncAt != "" {
		if _, err := dateutil.ParseClock(c.Calendar.SyncAt); err != nil {
			return fmt.Errorf("calendar.sync_at: %w", err)
		}
	}
	if c.Calendar.SyncMonths < 0 {
		return fmt.Errorf("calendar.sync_months must not be negative")
	}

	switch c.Bookings.Source {
	case BookingsFile:
		if c.Bookings.File == "" {
			return fmt.Errorf("bookings.file is required for file source")
		}
	case BookingsDatabase:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for database bookings")
		}
	default:
		return fmt.Errorf("bookings.source must be 'file' or 'database', got '%s'", c.Bookings.Source)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be between 0 and 1")
	}

	return nil
}

// AgendaConfig converts the agenda section into an agenda.Config
func (c *Config) AgendaConfig() (agenda.Config, error) {
	a := c.Agenda
	cfg := agenda.DefaultConfig()

	if a.SlotInterval != "" {
		d, err := time.ParseDuration(a.SlotInterval)
		if err != nil {
			return agenda.Config{}, fmt.Errorf("%w: agenda.slot_interval: %v", calendar.ErrInvalidArgument, err)
		}
		cfg.SlotInterval = d
	}

	clocks := []struct {
		key   string
		value string
		dst   *dateutil.Clock
	}{
		{"agenda.grid_start", a.GridStart, &cfg.GridStart},
		{"agenda.grid_end", a.GridEnd, &cfg.GridEnd},
		{"agenda.working_hours_start", a.WorkingHoursStart, &cfg.WorkStart},
		{"agenda.working_hours_end", a.WorkingHoursEnd, &cfg.WorkEnd},
	}
	for _, cl := range clocks {
		if cl.value == "" {
			continue
		}
		parsed, err := dateutil.ParseClock(cl.value)
		if err != nil {
			return agenda.Config{}, fmt.Errorf("%w: %s: %v", calendar.ErrInvalidArgument, cl.key, err)
		}
		*cl.dst = parsed
	}

	if len(a.WeeklyHours) > 0 {
		cfg.WeeklyHours = make(map[time.Weekday]agenda.Hours, len(a.WeeklyHours))
		for name, h := range a.WeeklyHours {
			day, err := parseWeekday(name)
			if err != nil {
				return agenda.Config{}, err
			}
			hours := agenda.Hours{Start: cfg.WorkStart, End: cfg.WorkEnd, Closed: h.Closed}
			if h.Start != "" {
				if hours.Start, err = dateutil.ParseClock(h.Start); err != nil {
					return agenda.Config{}, fmt.Errorf("%w: agenda.weekly_hours.%s.start: %v", calendar.ErrInvalidArgument, name, err)
				}
			}
			if h.End != "" {
				if hours.End, err = dateutil.ParseClock(h.End); err != nil {
					return agenda.Config{}, fmt.Errorf("%w: agenda.weekly_hours.%s.end: %v", calendar.ErrInvalidArgument, name, err)
				}
			}
			cfg.WeeklyHours[day] = hours
		}
	}

	if a.Locale != "" {
		cfg.Locale = a.Locale
	}

	if err := cfg.Validate(); err != nil {
		return agenda.Config{}, err
	}
	return cfg, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) || strings.EqualFold(name, d.String()[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", calendar.ErrInvalidArgument, name)
}

// GetLocation returns the agenda timezone. Default: local time
func (a *AgendaConfig) GetLocation() *time.Location {
	if a.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	return parseDurationOr(c.CacheTTL, 24*time.Hour)
}

// GetTTL returns the Redis entry TTL
func (c *RedisConfig) GetTTL() time.Duration {
	return parseDurationOr(c.TTL, 24*time.Hour)
}

// GetConnMaxLifetime returns the pool connection lifetime, zero when unset
func (c *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	return parseDurationOr(c.ConnMaxLifetime, 0)
}

// GetRequestTimeout returns the per-request timeout
func (c *ServerConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.RequestTimeout, 10*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDurationOr(c.ShutdownTimeout, 15*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Database.URL = os.ExpandEnv(c.Database.URL)
	c.Redis.Password = os.ExpandEnv(c.Redis.Password)
}
