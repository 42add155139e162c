package telemetry

import (
	"context"

	"go.trai.ch/loom/internal/core/ports"
)

// NoOpTracer starts spans that record nothing. Output written to them is discarded.
type NoOpTracer struct{}

// NewNoOpTracer returns a tracer for contexts without a renderer.
func NewNoOpTracer() NoOpTracer {
	return NoOpTracer{}
}

// Start returns ctx unchanged and a span that does nothing.
func (NoOpTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noOpSpan{}
}

type noOpSpan struct{}

func (noOpSpan) Write(p []byte) (int, error) { return len(p), nil }
func (noOpSpan) End()                        {}
func (noOpSpan) RecordError(error)           {}
func (noOpSpan) SetAttribute(string, any)    {}
