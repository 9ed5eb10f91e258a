package common

import (
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Unknown levels fall back to info.
//
// Parameters:
//   - level: a logrus level name such as "debug" or "warn"
//
// Returns:
//   - *logrus.Logger: a logger writing colored text to stderr
func NewLogger(level string) *logrus.Logger {
	lg := logrus.New()
	lg.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	lg.Level = lvl
	return lg
}
