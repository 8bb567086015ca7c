// Package logging provides structured logging configuration and utilities.
//
// The process logger is a *slog.Logger backed by zerolog. slog is the
// injection currency everywhere else in the codebase; zerolog stays an
// implementation detail of this package.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultMaxSizeMB caps the active diagnostic file before rotation.
	DefaultMaxSizeMB = 5
	// DefaultMaxBackups bounds how many rotated files are kept.
	DefaultMaxBackups = 5
	// FileName is the active diagnostic file inside the configured directory.
	FileName = "sluice.log"
)

// Config holds logging configuration.
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Pretty     bool   `yaml:"pretty" json:"pretty"`
	Console    bool   `yaml:"console" json:"console"`
	Directory  string `yaml:"directory" json:"directory"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

// Validate normalizes and checks the logging configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Level) == "" {
		c.Level = "info"
	}

	level := strings.TrimSpace(strings.ToLower(c.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Level = level // Normalize to lowercase
	default:
		return fmt.Errorf("invalid log level %q, supported levels: debug, info, warn, error", c.Level)
	}

	if c.MaxSizeMB < 0 {
		return fmt.Errorf("max_size_mb must not be negative, got %d", c.MaxSizeMB)
	}
	if c.MaxBackups < 0 {
		return fmt.Errorf("max_backups must not be negative, got %d", c.MaxBackups)
	}
	return nil
}

// NewLogger builds the process logger from cfg. Records go to stdout when
// Console is set and to a size-rotated file under Directory when one is
// configured; with neither, the logger discards everything. The returned
// close function flushes and closes the file sink and must be called during
// shutdown.
func NewLogger(cfg Config) (*slog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	closeFn := func() error { return nil }

	if cfg.Console {
		if cfg.Pretty {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	if cfg.Directory != "" {
		if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create directory %s: %w", cfg.Directory, err)
		}

		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = DefaultMaxSizeMB
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = DefaultMaxBackups
		}

		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Directory, FileName),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
		}
		writers = append(writers, rotator)
		closeFn = rotator.Close
	}

	var backend zerolog.Logger
	if len(writers) == 0 {
		backend = zerolog.Nop()
	} else {
		backend = zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(level).
			With().Timestamp().Logger()
	}

	handler := slogzerolog.Option{
		Level:  slogLevel(level),
		Logger: &backend,
	}.NewZerologHandler()

	return slog.New(handler), closeFn, nil
}

func slogLevel(level zerolog.Level) slog.Level {
	switch level {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return slog.LevelDebug
	case zerolog.WarnLevel:
		return slog.LevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
