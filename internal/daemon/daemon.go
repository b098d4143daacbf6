package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of scheduled work, e.g. refreshing the holiday calendar
type Job func(ctx context.Context) error

// Daemon runs the HTTP server and an optional daily job until stopped
type Daemon struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	ctx             context.Context
	cancel          context.CancelFunc

	job         Job
	dailyHour   int // 0-23
	dailyMinute int // 0-59
	location    *time.Location
	now         func() time.Time

	mu          sync.Mutex
	jobRunning  bool
	lastRunDate string    // date of the last successful run, in location
	lastRunTime time.Time // time of the last successful run
}

// Option configures a Daemon
type Option func(*Daemon)

// WithDailyJob runs job once a day at hour:minute in loc
func WithDailyJob(hour, minute int, loc *time.Location, job Job) Option {
	return func(d *Daemon) {
		d.job = job
		d.dailyHour = hour
		d.dailyMinute = minute
		if loc != nil {
			d.location = loc
		}
	}
}

// NewDaemon creates a daemon serving server
func NewDaemon(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, opts ...Option) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
		location:        time.Local,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start serves HTTP and blocks until Stop, SIGINT/SIGTERM or a server failure
func (d *Daemon) Start() error {
	serverErr := make(chan error, 1)
	go func() {
		d.logger.Info("Starting HTTP server", zap.String("addr", d.server.Addr))
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var tick <-chan time.Time
	if d.job != nil {
		d.runMissedJob()

		nextRun := d.calculateNextRun()
		d.logger.Info("Next scheduled job",
			zap.Time("next_run", nextRun),
			zap.Duration("wait_duration", nextRun.Sub(d.now())))

		// Check every minute if it's time to run
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon stopped")
			return d.shutdown()

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
			return d.shutdown()

		case err, ok := <-serverErr:
			if ok && err != nil {
				d.Stop()
				return fmt.Errorf("http server failed: %w", err)
			}
			serverErr = nil

		case now := <-tick:
			if d.shouldRunAt(now) {
				d.logger.Info("Starting scheduled job", zap.Time("time", now))
				if err := d.runJob(); err != nil {
					d.logger.Error("Scheduled job failed", zap.Error(err))
				}
			}
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	d.logger.Info("HTTP server stopped gracefully")
	return nil
}

// runMissedJob runs the job right away when today's scheduled time already passed
func (d *Daemon) runMissedJob() {
	now := d.now().In(d.location)
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	if !now.After(scheduledToday) {
		return
	}

	d.logger.Info("Scheduled time already passed today, running job now",
		zap.Time("scheduled_time", scheduledToday),
		zap.Time("current_time", now))

	if err := d.runJob(); err != nil {
		d.logger.Error("Initial job run failed", zap.Error(err))
	}
}

// calculateNextRun returns the next scheduled run time
func (d *Daemon) calculateNextRun() time.Time {
	now := d.now().In(d.location)
	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.location)

	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}
	return today
}

// shouldRunAt reports whether t falls in the scheduled minute
func (d *Daemon) shouldRunAt(t time.Time) bool {
	local := t.In(d.location)
	return local.Hour() == d.dailyHour && local.Minute() == d.dailyMinute
}

// runJob executes the job at most once per day; concurrent calls are rejected
func (d *Daemon) runJob() error {
	d.mu.Lock()
	if d.jobRunning {
		d.mu.Unlock()
		d.logger.Warn("Job already running, skipping concurrent execution")
		return fmt.Errorf("job already in progress")
	}

	today := d.now().In(d.location).Format("2006-01-02")
	if d.lastRunDate == today {
		d.mu.Unlock()
		d.logger.Info("Job already ran today, skipping",
			zap.String("last_run_date", d.lastRunDate),
			zap.Time("last_run_time", d.lastRunTime))
		return nil
	}
	d.jobRunning = true
	d.mu.Unlock()

	err := d.job(d.ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobRunning = false
	if err != nil {
		return err
	}
	d.lastRunDate = today
	d.lastRunTime = d.now()
	return nil
}
