package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
	"go.uber.org/zap"
)

func dayCmd() *cobra.Command {
	var dateStr string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the slot grid for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := initializeComponents(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			day := dateutil.StartOfDay(time.Now().In(c.location))
			if dateStr != "" {
				day, err = dateutil.ParseDateIn(dateStr, c.location)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
			}

			logger.Info("Building day agenda", zap.Time("date", day))

			view, err := c.service.DayView(ctx, day)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(outWriter)
				enc.SetIndent("", "  ")
				return enc.Encode(view.Slots)
			}
			renderDay(outWriter, view)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Date (YYYY-MM-DD), default today")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print slots as JSON")

	return cmd
}

func monthCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the business-day summary of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := initializeComponents(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			y, m := resolveMonth(year, month, c.location)
			summary, err := c.service.MonthView(ctx, y, m)
			if err != nil {
				return err
			}

			renderMonth(outWriter, summary, calendar.WeekdayHeaders(c.service.Locale()))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year, default current")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12, default current")

	return cmd
}

// resolveMonth fills zero flags from the current date
func resolveMonth(year, month int, loc *time.Location) (int, time.Month) {
	now := time.Now().In(loc)
	y, m := now.Year(), now.Month()
	if year != 0 {
		y = year
	}
	if month != 0 {
		m = time.Month(month)
	}
	return y, m
}
