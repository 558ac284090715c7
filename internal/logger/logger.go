// Package logger builds the process logger from configuration.
package logger

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"tasks/internal/config"
)

// New returns a logrus logger writing to stdout with the configured level and format.
func New(cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	l := log.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(level)
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		l.SetFormatter(&log.JSONFormatter{})
	case "text":
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.Format)
	}
	return l, nil
}
