// Package timeouts holds the deadlines applied to store round-trips.
//
//   - Ping: health checks
//   - Short: single-document reads and writes (teacher lookup, get/update/delete by id)
//   - Medium: list queries
//
// Values start at their defaults and may be changed once at startup with
// Configure (normally from the loaded app config).
package timeouts

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
)

var (
	ping   atomic.Int64
	short  atomic.Int64
	medium atomic.Int64
)

func init() { Reset() }

// Ping returns the health-check timeout.
func Ping() time.Duration { return time.Duration(ping.Load()) }

// Short returns the timeout for single-document operations.
func Short() time.Duration { return time.Duration(short.Load()) }

// Medium returns the timeout for list queries.
func Medium() time.Duration { return time.Duration(medium.Load()) }

// Config holds timeout overrides. Zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
}

// Configure applies the non-zero values in cfg.
func Configure(cfg Config) {
	if cfg.Ping > 0 {
		ping.Store(int64(cfg.Ping))
	}
	if cfg.Short > 0 {
		short.Store(int64(cfg.Short))
	}
	if cfg.Medium > 0 {
		medium.Store(int64(cfg.Medium))
	}
}

// Reset restores the defaults.
func Reset() {
	ping.Store(int64(DefaultPing))
	short.Store(int64(DefaultShort))
	medium.Store(int64(DefaultMedium))
}

// Current returns the active configuration.
func Current() Config {
	return Config{Ping: Ping(), Short: Short(), Medium: Medium()}
}

// WithTimeout derives a context with the given timeout. The returned cancel
// function logs a warning when the deadline was hit, naming the operation.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), s.Log, "list announcements")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
