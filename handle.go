package aspect

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Handle binds an advice kind to a target. Handles are immutable values: the
// kind and target are fixed at creation and Attach is the only operation.
// A handle can be attached any number of times; each Attach wraps whatever
// the target resolves to at that moment.
type Handle struct {
	kind   adviceKind
	target any
}

// Before returns a handle that runs advice before target.
func Before(target any) Handle {
	return Handle{kind: kindBefore, target: target}
}

// After returns a handle that runs advice after target.
func After(target any) Handle {
	return Handle{kind: kindAfter, target: target}
}

// Around returns a handle whose advice decides whether and when target runs.
func Around(target any) Handle {
	return Handle{kind: kindAround, target: target}
}

// AttachOption configures a single Attach call.
type AttachOption func(*weaveConfig)

// WithTransfer controls whether a truthy result of before or after advice is
// passed on as the sole argument of the next stage. It defaults to true and
// has no effect on around advice.
func WithTransfer(enabled bool) AttachOption {
	return func(cfg *weaveConfig) {
		cfg.transfer = enabled
	}
}

// WithLogger receives debug events about weaving.
func WithLogger(logger zerolog.Logger) AttachOption {
	return func(cfg *weaveConfig) {
		cfg.logger = logger
	}
}

func defaultWeaveConfig() weaveConfig {
	return weaveConfig{
		transfer: true,
		logger:   zerolog.Nop(),
	}
}

// Attach weaves adviser onto the handle's target and returns the installed
// wrapper. Member targets are replaced in place; a standalone target cannot
// be, so the caller must use the returned Func instead of the original.
//
// The adviser may be a function or a MethodRef. If it does not resolve to a
// callable value Attach returns ErrInvalidAdviser and the target is untouched.
func (h Handle) Attach(adviser any, opts ...AttachOption) (Func, error) {
	cfg := defaultWeaveConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	advice, err := resolveCallable(adviser)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidAdviser, err)
		cfg.logger.Debug().Err(err).Stringer("kind", h.kind).Msg("advice rejected")
		return nil, err
	}

	wrapper, err := weave(h.kind, h.target, advice.fn, cfg)
	if err != nil {
		cfg.logger.Debug().Err(err).Stringer("kind", h.kind).Msg("advice rejected")
		return nil, err
	}
	return wrapper, nil
}
