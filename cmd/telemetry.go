package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/moviehub/internal/server"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

const flushTimeout = 2 * time.Second

// Telemetry reports errors to Sentry. A nil *Telemetry is disabled and every method is a no-op.
type Telemetry struct{}

// InitTelemetry initializes Sentry when a DSN is configured, returning nil otherwise.
func InitTelemetry(c shared.TelemetryConfig) (*Telemetry, error) {
	if c.SentryDSN == "" {
		return nil, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              c.SentryDSN,
		Environment:      c.Environment,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	}); err != nil {
		return nil, fmt.Errorf("failed to init sentry: %w", err)
	}
	return &Telemetry{}, nil
}

// Capture reports err.
func (t *Telemetry) Capture(err error) {
	if t == nil || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush waits for buffered events to be delivered.
func (t *Telemetry) Flush() {
	if t == nil {
		return
	}
	sentry.Flush(flushTimeout)
}

// Middleware returns HTTP middleware reporting panics, or nil when disabled.
func (t *Telemetry) Middleware() []server.Middleware {
	if t == nil {
		return nil
	}
	handler := sentryhttp.New(sentryhttp.Options{Repanic: true})
	return []server.Middleware{func(next http.Handler) http.Handler { return handler.Handle(next) }}
}
