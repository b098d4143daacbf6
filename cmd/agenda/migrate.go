package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/grooming-agenda/internal/store/postgres"
	"github.com/username/grooming-agenda/migrations"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database.url is required")
			}

			db, err := postgres.Open(cfg.Database.URL, postgres.PoolConfig{MaxOpenConns: 1})
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer postgres.Close(db)

			applied, err := postgres.Migrate(cmd.Context(), db, migrations.FS)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			for _, name := range applied {
				logger.Info("Migration applied", zap.String("file", name))
				outPrintf("  • %s\n", name)
			}
			outPrintf("\n✅ %d migration file(s) applied\n", len(applied))
			return nil
		},
	}
}
