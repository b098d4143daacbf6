package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileCalendar implements HolidayLookup using a local text file.
//
// Format, one day per line:
//
//	YYYY-MM-DD holiday Name of the holiday
//	YYYY-MM-DD workday   (accepted and ignored)
//
// Empty lines and lines starting with # are skipped.
type FileCalendar struct {
	filePath string
	logger   *zap.Logger

	mu   sync.RWMutex
	data map[string][]Holiday // key: "YYYY-MM"
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]Holiday),
	}
}

// Load (re)loads calendar data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	data, err := fc.parse(file)
	if err != nil {
		return err
	}

	fc.mu.Lock()
	fc.data = data
	fc.mu.Unlock()

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("months", len(data)))

	return nil
}

func (fc *FileCalendar) parse(r io.Reader) (map[string][]Holiday, error) {
	data := make(map[string][]Holiday)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.String("line", line))
			continue
		}

		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date", zap.String("date", parts[0]), zap.Error(err))
			continue
		}

		switch parts[1] {
		case "holiday":
		case "workday", "weekend", "shortened":
			continue
		default:
			fc.logger.Warn("Unknown day type", zap.String("type", parts[1]))
			continue
		}

		name := "Holiday"
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			name = strings.TrimSpace(parts[2])
		}

		key := monthKey(date.Year(), date.Month())
		data[key] = append(data[key], Holiday{Date: date, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading calendar file: %w", err)
	}

	return data, nil
}

// HolidaysInMonth returns the holidays listed for the month; a month missing
// from the file has no named holidays
func (fc *FileCalendar) HolidaysInMonth(_ context.Context, year int, month time.Month) ([]Holiday, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	holidays := fc.data[monthKey(year, month)]
	out := make([]Holiday, len(holidays))
	copy(out, holidays)
	return out, nil
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, month)
}
