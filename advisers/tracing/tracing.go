// Package tracing provides around advice that wraps every advised call in an
// OpenTelemetry span.
//
// When the first argument of a call is a context.Context the span becomes a
// child of that context, and the target receives the span's context in its
// place so that nested spans are parented correctly.
package tracing

import (
	"context"

	"github.com/bpradana/aspect"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys recorded on every span.
var (
	AttrTarget = attribute.Key("aspect.target")
	AttrArgs   = attribute.Key("aspect.args")
)

// Option configures the tracing advice.
type Option func(*config)

type config struct {
	spanName string
	attrs    []attribute.KeyValue
}

// WithSpanName sets the span name. It defaults to the advised member's name,
// or "aspect.call" for standalone targets.
func WithSpanName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.spanName = name
		}
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(cfg *config) {
		cfg.attrs = append(cfg.attrs, attrs...)
	}
}

// New returns around advice that starts a span on tracer for each call.
func New(tracer trace.Tracer, opts ...Option) aspect.AroundFunc {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(inv *aspect.Invocation) (any, error) {
		name := cfg.spanName
		if name == "" {
			name = inv.Name
		}
		if name == "" {
			name = "aspect.call"
		}

		ctx := context.Background()
		parent, hasContext := firstContext(inv.Args)
		if hasContext {
			ctx = parent
		}

		attrs := append([]attribute.KeyValue{
			AttrTarget.String(inv.Name),
			AttrArgs.Int(len(inv.Args)),
		}, cfg.attrs...)
		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
		defer span.End()

		args := inv.Args
		if hasContext {
			args = append([]any{ctx}, inv.Args[1:]...)
		}

		result, err := inv.ProceedWith(args...)
		recordError(span, err)
		return result, err
	}
}

func firstContext(args []any) (context.Context, bool) {
	if len(args) == 0 {
		return nil, false
	}
	ctx, ok := args[0].(context.Context)
	return ctx, ok
}

func recordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
