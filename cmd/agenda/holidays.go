package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/internal/store/postgres"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Inspect and manage the holiday calendar",
	}

	cmd.AddCommand(holidaysListCmd())
	cmd.AddCommand(holidaysSyncCmd())
	cmd.AddCommand(holidaysAddCmd())
	cmd.AddCommand(holidaysRemoveCmd())

	return cmd
}

func holidaysListCmd() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List non-working days of a month",
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
			set, err := calendar.Resolve(ctx, y, m, c.holidays)
			if err != nil {
				return err
			}

			outPrintf("\n📅 %s %d: %d non-working day(s)\n", calendar.MonthName(m, c.service.Locale()), y, len(set))
			outPrintln("═══════════════════════════════════════════════════════")
			for _, day := range set.Days() {
				date := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
				outPrintf("  %s  %-9s  %s\n", date.Format("2006-01-02"), date.Weekday(), set.Label(day))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year, default current")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12, default current")

	return cmd
}

func holidaysSyncCmd() *cobra.Command {
	var year, month, months int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch holidays from the configured calendar into the database and refresh the cache",
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

			if months <= 0 {
				months = cfg.Calendar.SyncMonths
			}
			y, m := resolveMonth(year, month, c.location)

			s := c.syncer()
			if s.Writer == nil {
				outPrintln("ℹ️  No database to store holidays in, only refreshing caches")
			}

			outPrintf("⏳ Syncing %d month(s) from %d-%02d\n", months, y, int(m))
			result, err := s.Run(ctx, y, m, months)
			if err != nil {
				return err
			}

			outPrintf("\n✅ Synced %d month(s): %d holiday(s) fetched, %d stored, took %s\n",
				result.Months, result.Holidays, result.Stored, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "First year, default current")
	cmd.Flags().IntVar(&month, "month", 0, "First month 1-12, default current")
	cmd.Flags().IntVar(&months, "months", 0, "Number of months (default calendar.sync_months)")

	return cmd
}

func holidaysAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add DATE NAME",
		Short: "Store a named holiday in the database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, repo, err := holidayRepoComponents(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			date, err := dateutil.ParseDateIn(args[0], time.UTC)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			ctx := cmd.Context()
			if _, err := repo.Upsert(ctx, []calendar.Holiday{{Date: date, Name: args[1]}}); err != nil {
				return err
			}
			if c.cache != nil {
				_ = c.cache.Invalidate(ctx, date.Year(), date.Month())
			}

			outPrintf("✅ Holiday %s stored: %s\n", date.Format("2006-01-02"), args[1])
			return nil
		},
	}
	return cmd
}

func holidaysRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove DATE",
		Short: "Delete a holiday from the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, repo, err := holidayRepoComponents(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			date, err := dateutil.ParseDateIn(args[0], time.UTC)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			ctx := cmd.Context()
			if err := repo.Delete(ctx, date); err != nil {
				return err
			}
			if c.cache != nil {
				_ = c.cache.Invalidate(ctx, date.Year(), date.Month())
			}

			outPrintf("✅ Holiday %s removed\n", date.Format("2006-01-02"))
			return nil
		},
	}
	return cmd
}

func holidayRepoComponents(cmd *cobra.Command) (*components, *postgres.HolidayRepo, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	c, err := initializeComponents(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	if c.holidayRepo == nil {
		c.Close()
		return nil, nil, fmt.Errorf("database.url is required to manage stored holidays")
	}
	return c, c.holidayRepo, nil
}
