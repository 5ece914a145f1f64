package log

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bisegni/jframe/pkg/perrors"
)

// Config contains the configuration for the global logger.
type Config struct {
	Format string // text or json
	Level  string // trace, debug, info, warn or error
	File   string // blank or '-' logs to stderr, which keeps stdout free for results
}

// DefaultConfig logs warnings and errors as text to stderr.
func DefaultConfig() Config {
	return Config{Format: "text", Level: "warn", File: "-"}
}

// Configure the global logger
func (cfg *Config) Configure() error {
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "open log file %s", cfg.File)
		}
		log.SetOutput(f)
	} else {
		log.SetOutput(os.Stderr)
	}
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return perrors.NewInvalidConfigurationError(err.Error())
		}
		log.SetLevel(level)
	}
	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return perrors.NewInvalidConfigurationError("log format must be either text or json")
	}
	return nil
}
