// Package logging provides around advice that records every advised call
// with zerolog.
package logging

import (
	"time"

	"github.com/bpradana/aspect"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// now is overridden in tests to provide deterministic timings.
var now = time.Now

// Option configures the logging advice.
type Option func(*config)

type config struct {
	level   zerolog.Level
	name    string
	logArgs bool
}

// WithLevel sets the level of the start and finish events. Failures are
// always logged at error level.
func WithLevel(level zerolog.Level) Option {
	return func(cfg *config) {
		cfg.level = level
	}
}

// WithName labels standalone targets, which have no member name of their own.
func WithName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithArgs includes the call arguments in the start event.
func WithArgs(enabled bool) Option {
	return func(cfg *config) {
		cfg.logArgs = enabled
	}
}

// New returns around advice that logs the start and the outcome of each call.
// Results and errors are passed through unchanged.
func New(logger zerolog.Logger, opts ...Option) aspect.AroundFunc {
	cfg := config{level: zerolog.DebugLevel}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(inv *aspect.Invocation) (any, error) {
		name := inv.Name
		if name == "" {
			name = cfg.name
		}
		callLog := logger.With().
			Str("call_id", uuid.NewString()).
			Str("target", name).
			Logger()

		event := callLog.WithLevel(cfg.level).Int("args", len(inv.Args))
		if cfg.logArgs {
			event = event.Interface("arguments", inv.Args)
		}
		event.Msg("call started")

		started := now()
		result, err := inv.Proceed()
		elapsed := now().Sub(started)

		if err != nil {
			callLog.Error().Err(err).Dur("duration", elapsed).Msg("call failed")
			return result, err
		}
		callLog.WithLevel(cfg.level).Dur("duration", elapsed).Msg("call finished")
		return result, nil
	}
}
