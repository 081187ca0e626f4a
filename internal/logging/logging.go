// Package logging builds the structured logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tessro/jukebox/internal/config"
)

// New returns a logger configured from cfg. Output goes to cfg.File when
// set, appending, and to fallback otherwise. The returned close function
// releases the log file.
func New(cfg config.LogConfig, fallback io.Writer) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	closeFn := func() error { return nil }

	out := fallback
	if out == nil {
		out = io.Discard
	}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	logger.SetOutput(out)

	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			DisableColors:   cfg.File != "",
			TimestampFormat: "15:04:05.000",
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger, closeFn, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
