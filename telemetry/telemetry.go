// Package telemetry defines the logging, metrics, and tracing interfaces
// with no-op and clue/OTEL-backed implementations. Only Logger is injected
// into a runtime component (graph.Agent, via factory.Deps or
// graph.Collaborators), which substitutes NoopLogger when it is nil.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Logger captures structured logging used throughout the runtime. The
// interface is intentionally small so tests can provide lightweight stubs
// without depending on a concrete logging backend.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals ...any)
	Info(ctx context.Context, msg string, keyvals ...any)
	Warn(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// Metrics exposes counter/timer/gauge helpers for runtime instrumentation.
type Metrics interface {
	IncCounter(name string, value float64, tags ...string)
	RecordTimer(name string, duration time.Duration, tags ...string)
	RecordGauge(name string, value float64, tags ...string)
}

// Tracer abstracts span creation so runtime code stays agnostic of the
// underlying OpenTelemetry provider.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
	Span(ctx context.Context) Span
}

// Span represents an in-flight tracing span.
type Span interface {
	End(opts ...trace.SpanEndOption)
	AddEvent(name string, attrs ...any)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts ...trace.EventOption)
}

// ToolTelemetry captures observability metadata collected during a single
// tool invocation.
type ToolTelemetry struct {
	// DurationMs is the wall-clock execution time in milliseconds.
	DurationMs int64
	// Attempts is the number of attempts the tool took to finish
	//.
	Attempts int
	// TokensUsed tracks tokens consumed by any LLM call the tool body made
	// (0 for tools that never call an LLM).
	TokensUsed int
	// Model identifies which model backed the call, if any.
	Model string
	// Extra holds tool-specific metadata not captured by the fields above.
	Extra map[string]any
}
