package observability

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured logrus logger.
//
// level is one of debug, info, warn, error (case insensitive, unknown values
// fall back to info). format is "text" or "json".
func NewLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(level))

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// parseLevel maps a level string to a logrus level
func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
