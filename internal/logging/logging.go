package logging

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/config"
)

// Setup configures the global logrus logger
func Setup(cfg config.LogConfig) error {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return nil
}
