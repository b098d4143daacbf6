package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/username/grooming-agenda/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	isdayoffBaseURL    = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour

	// DayOffName labels weekdays the remote calendar reports as non-working.
	// The API does not carry holiday names.
	DayOffName = "Day off"
)

// IsDayOffCalendar implements HolidayLookup using the isdayoff.ru bulk API
// with xmlcalendar.ru as fallback
type IsDayOffCalendar struct {
	baseURL      string
	httpClient   *http.Client
	logger       *zap.Logger
	cache        map[string]*cachedMonth
	cacheMu      sync.RWMutex
	cacheTTL     time.Duration
	fallbackURL  string
	fallbackData map[int]*xmlCalendarYear // year → calendar data
}

type cachedMonth struct {
	holidays  []Holiday
	fetchedAt time.Time
}

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// IsDayOffOption customizes an IsDayOffCalendar
type IsDayOffOption func(*IsDayOffCalendar)

// WithBaseURL points the calendar at another isdayoff-compatible host
func WithBaseURL(baseURL string) IsDayOffOption {
	return func(c *IsDayOffCalendar) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) IsDayOffOption {
	return func(c *IsDayOffCalendar) {
		c.httpClient = client
	}
}

// NewIsDayOffCalendar creates a new IsDayOffCalendar instance
func NewIsDayOffCalendar(fallbackURL string, cacheTTL time.Duration, logger *zap.Logger, opts ...IsDayOffOption) *IsDayOffCalendar {
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	c := &IsDayOffCalendar{
		baseURL: isdayoffBaseURL,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:       logger,
		cache:        make(map[string]*cachedMonth),
		cacheTTL:     cacheTTL,
		fallbackURL:  fallbackURL,
		fallbackData: make(map[int]*xmlCalendarYear),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HolidaysInMonth returns weekdays marked non-working by the remote calendar
func (c *IsDayOffCalendar) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	key := monthKey(year, month)

	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok && time.Since(cached.fetchedAt) < c.cacheTTL {
		c.cacheMu.RUnlock()
		c.logger.Debug("Using cached month", zap.String("month", key))
		return cached.holidays, nil
	}
	c.cacheMu.RUnlock()

	holidays, err := c.fetchMonthFromAPI(ctx, year, month)
	if err != nil {
		if c.fallbackURL == "" {
			return nil, err
		}

		c.logger.Warn("Failed to fetch month from API, trying fallback",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))

		var fallbackErr error
		holidays, fallbackErr = c.fetchMonthFromFallback(ctx, year, month)
		if fallbackErr != nil {
			return nil, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}
	}

	c.cacheMu.Lock()
	c.cache[key] = &cachedMonth{holidays: holidays, fetchedAt: time.Now()}
	c.cacheMu.Unlock()

	return holidays, nil
}

// fetchMonthFromAPI fetches entire month from isdayoff.ru bulk API
func (c *IsDayOffCalendar) fetchMonthFromAPI(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	// e.g. https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1", c.baseURL, year, int(month))

	c.logger.Debug("Fetching month from isdayoff",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	holidays, err := c.parseBulkResponse(year, month, strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Month fetched from API",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", len(holidays)))

	return holidays, nil
}

func (c *IsDayOffCalendar) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("calendar API returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// parseBulkResponse parses isdayoff.ru bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (still working)
// Only weekdays coded 1 are holidays; weekends are computed by Resolve.
func (c *IsDayOffCalendar) parseBulkResponse(year int, month time.Month, data string) ([]Holiday, error) {
	daysInMonth := dateutil.DaysInMonth(year, month)

	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	var holidays []Holiday
	for i, code := range data {
		date := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)

		switch code {
		case '0', '2':
			if dateutil.IsWeekend(date) {
				c.logger.Debug("Transferred working day ignored", zap.Time("date", date))
			}
		case '1':
			if !dateutil.IsWeekend(date) {
				holidays = append(holidays, Holiday{Date: date, Name: DayOffName})
			}
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return holidays, nil
}

// fetchMonthFromFallback fetches month from xmlcalendar.ru
func (c *IsDayOffCalendar) fetchMonthFromFallback(ctx context.Context, year int, month time.Month) ([]Holiday, error) {
	c.cacheMu.RLock()
	yearData, exists := c.fallbackData[year]
	c.cacheMu.RUnlock()

	if !exists {
		var err error
		yearData, err = c.downloadFallbackYear(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("failed to download fallback data: %w", err)
		}

		c.cacheMu.Lock()
		c.fallbackData[year] = yearData
		c.cacheMu.Unlock()
	}

	for i := range yearData.Months {
		if yearData.Months[i].Month == int(month) {
			return c.parseXMLCalendarMonth(year, month, &yearData.Months[i]), nil
		}
	}

	return nil, fmt.Errorf("month %d not found in fallback data for year %d", month, year)
}

// downloadFallbackYear downloads entire year from xmlcalendar.ru
func (c *IsDayOffCalendar) downloadFallbackYear(ctx context.Context, year int) (*xmlCalendarYear, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var yearData xmlCalendarYear
	if err := json.NewDecoder(body).Decode(&yearData); err != nil {
		return nil, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}

	return &yearData, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day (working), + = transferred day off, others = weekends/holidays
func (c *IsDayOffCalendar) parseXMLCalendarMonth(year int, month time.Month, xmlMonth *xmlCalendarMonth) []Holiday {
	daysInMonth := dateutil.DaysInMonth(year, month)

	var holidays []Holiday
	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.HasSuffix(part, "*") {
			continue
		}

		day, err := strconv.Atoi(strings.TrimSuffix(part, "+"))
		if err != nil || day < 1 || day > daysInMonth {
			c.logger.Warn("Failed to parse day number", zap.String("part", part))
			continue
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if !dateutil.IsWeekend(date) {
			holidays = append(holidays, Holiday{Date: date, Name: DayOffName})
		}
	}

	return holidays
}

// ClearCache clears the cache
func (c *IsDayOffCalendar) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*cachedMonth)
	c.fallbackData = make(map[int]*xmlCalendarYear)
	c.logger.Info("Calendar cache cleared")
}
