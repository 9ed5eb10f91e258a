package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-character/engine/config"
	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global sentry client when a DSN is set.
// The returned flush function is safe to defer even when sentry stays disabled.
//
// Parameters:
//   - cfg: the sentry section of the configuration
//
// Returns:
//   - func(): flushes buffered events, waiting at most two seconds
//   - error: an error if the client could not be created
func InitSentry(cfg config.SentryConfig) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}
