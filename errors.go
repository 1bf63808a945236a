package aspect

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidAdviser indicates the adviser did not resolve to a callable value.
	ErrInvalidAdviser = errors.New("aspect: adviser must be callable")
	// ErrInvalidTarget indicates the advised target did not resolve to a callable value.
	ErrInvalidTarget = errors.New("aspect: target must be callable")
	// ErrNotInstallable indicates the target member exists but cannot be replaced.
	ErrNotInstallable = errors.New("aspect: target member cannot be replaced")
	// ErrUnsupportedKind indicates an advice kind outside before, after and around.
	ErrUnsupportedKind = errors.New("aspect: unsupported advice kind")
	// ErrNotCallable indicates a value that is not a function was adapted.
	ErrNotCallable = errors.New("aspect: value is not a function")
	// ErrArgumentMismatch indicates an argument could not be passed to a parameter.
	ErrArgumentMismatch = errors.New("aspect: argument does not match parameter type")
)

// ArgumentError describes an argument or result that does not fit the Go type
// of the function it is forwarded to.
type ArgumentError struct {
	Index int
	Want  reflect.Type
	Value any
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("aspect: argument %d: cannot use %T as %s", e.Index, e.Value, e.Want)
}

// Unwrap allows errors.Is(err, ErrArgumentMismatch).
func (e *ArgumentError) Unwrap() error {
	return ErrArgumentMismatch
}
