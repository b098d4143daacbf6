package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/grooming-agenda/internal/daemon"
	"github.com/username/grooming-agenda/internal/telemetry"
	"github.com/username/grooming-agenda/internal/transport/httpapi"
	"github.com/username/grooming-agenda/pkg/dateutil"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()

			shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
				Enabled:      cfg.Telemetry.Enabled,
				ServiceName:  cfg.Telemetry.ServiceName,
				OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
				SampleRatio:  cfg.Telemetry.SampleRatio,
			})
			if err != nil {
				return fmt.Errorf("failed to set up tracing: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(shutdownCtx); err != nil {
					logger.Warn("Failed to flush traces", zap.Error(err))
				}
			}()

			c, err := initializeComponents(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			var writer httpapi.BookingWriter
			if c.bookingRepo != nil {
				writer = c.bookingRepo
			}
			handler := httpapi.NewHandler(c.service, writer, c.location, logger)
			router := httpapi.NewRouter(handler, httpapi.Options{
				AllowedOrigins:     cfg.Server.CORSAllowedOrigins,
				RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
				RateLimitBurst:     cfg.Server.RateLimitBurst,
				RequestTimeout:     cfg.Server.GetRequestTimeout(),
			}, logger)

			server := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           otelhttp.NewHandler(router, "agenda"),
				ReadHeaderTimeout: 10 * time.Second,
			}

			var opts []daemon.Option
			if cfg.Calendar.SyncAt != "" {
				at, err := dateutil.ParseClock(cfg.Calendar.SyncAt)
				if err != nil {
					return err
				}
				months := cfg.Calendar.SyncMonths
				if months <= 0 {
					months = 1
				}
				s := c.syncer()
				opts = append(opts, daemon.WithDailyJob(at.Hour, at.Minute, c.location, func(ctx context.Context) error {
					now := time.Now().In(c.location)
					_, err := s.Run(ctx, now.Year(), now.Month(), months)
					return err
				}))
				logger.Info("Daily holiday sync enabled",
					zap.String("at", at.String()),
					zap.Int("months", months))
			}

			d := daemon.NewDaemon(server, cfg.Server.GetShutdownTimeout(), logger, opts...)
			return d.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
