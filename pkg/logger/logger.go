package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	// Set formatter based on environment
	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// Logs go to stderr; stdout carries the lineup report
	log.SetOutput(os.Stderr)

	// Store global logger reference
	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// WithComponent creates a logger scoped to one part of the pipeline
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithRunID creates a logger with the pipeline run id
func WithRunID(runID string) *logrus.Entry {
	return GetLogger().WithField("run_id", runID)
}

// WithPlayerContext creates a logger with player context
func WithPlayerContext(entry *logrus.Entry, nickname, position string) *logrus.Entry {
	if entry == nil {
		entry = logrus.NewEntry(GetLogger())
	}
	fields := logrus.Fields{"player": nickname}
	if position != "" {
		fields["position"] = position
	}
	return entry.WithFields(fields)
}
