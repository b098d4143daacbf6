package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/username/grooming-agenda/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	teeOutput  string
	logger     *zap.Logger
	outWriter  io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Grooming salon agenda",
		Long:  "Day slot grids, month summaries and holiday calendars for a grooming salon",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				level := "info"
				if cfg != nil {
					level = cfg.Log.Level
				}
				initLogger(level)
			}
			return openTee()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeTee()
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.grooming-agenda, /etc/grooming-agenda)")
	rootCmd.PersistentFlags().StringVar(&teeOutput, "tee-output", "", "Mirror command output to file")

	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(monthCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var teeFile *os.File

func openTee() error {
	outWriter = os.Stdout
	if teeOutput == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
		return fmt.Errorf("failed to create tee path: %w", err)
	}
	f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open tee-output file: %w", err)
	}
	teeFile = f
	outWriter = io.MultiWriter(os.Stdout, f)
	return nil
}

func closeTee() {
	if teeFile != nil {
		_ = teeFile.Close()
		teeFile = nil
	}
	outWriter = os.Stdout
}

func outPrintf(format string, a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintf(outWriter, format, a...)
}

func outPrintln(a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintln(outWriter, a...)
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
