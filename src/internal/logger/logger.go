package logger

import (
	"io"
	"os"
	"path/filepath"

	"pctracer-svc/src/internal/config"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger from the logs section.
func Init(cfg *config.Configuration) {
	Configure(logrus.StandardLogger(), &cfg.Logs)
}

func Configure(log *logrus.Logger, cfg *config.LogsSettings) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.EnableJSONOutput {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if cfg.Path == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		log.WithError(err).Warn("Cannot create log directory, logging to stdout only")
		log.SetOutput(os.Stdout)
		return
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.WithError(err).Warn("Cannot open log file, logging to stdout only")
		log.SetOutput(os.Stdout)
		return
	}

	log.SetOutput(io.MultiWriter(os.Stdout, file))
}
