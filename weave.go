package aspect

import (
	"fmt"

	"github.com/rs/zerolog"
)

// adviceKind identifies where advice runs relative to its target.
type adviceKind string

const (
	kindBefore adviceKind = "before"
	kindAfter  adviceKind = "after"
	kindAround adviceKind = "around"
)

func (k adviceKind) String() string {
	return string(k)
}

type weaveConfig struct {
	transfer bool
	logger   zerolog.Logger
}

// weave resolves target, builds the wrapper for kind and, when the target is
// a replaceable member, installs the wrapper in its place. The installation is
// a plain read-then-write on a shared object; callers weaving the same member
// from several goroutines must synchronise themselves.
func weave(kind adviceKind, target any, adviser Func, cfg weaveConfig) (Func, error) {
	original, err := resolveCallable(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if original.bound && original.slot == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotInstallable, original.name)
	}

	wrapper, err := buildWrapper(kind, original, adviser, cfg.transfer)
	if err != nil {
		return nil, err
	}

	if original.slot != nil {
		original.slot.store(wrapper)
	}
	cfg.logger.Debug().
		Stringer("kind", kind).
		Str("member", original.name).
		Bool("installed", original.slot != nil).
		Bool("transfer", cfg.transfer).
		Msg("advice woven")
	return wrapper, nil
}

func buildWrapper(kind adviceKind, original resolved, adviser Func, transfer bool) (Func, error) {
	target := original.fn

	switch kind {
	case kindBefore:
		return func(args ...any) (any, error) {
			result, err := adviser(args...)
			if err != nil {
				return nil, err
			}
			if transfer && Truthy(result) {
				return target(result)
			}
			return target(args...)
		}, nil
	case kindAfter:
		return func(args ...any) (any, error) {
			result, err := target(args...)
			if err != nil {
				return result, err
			}
			if transfer && Truthy(result) {
				return adviser(result)
			}
			return adviser(args...)
		}, nil
	case kindAround:
		return func(args ...any) (any, error) {
			return adviser(&Invocation{
				Name:   original.name,
				Args:   append([]any(nil), args...),
				method: target,
			})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, string(kind))
	}
}
