package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is the span processor that turns pipeline node spans into renderer
// rows. A node span nests under the span active when it started.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer discards everything.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart announces the node row.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}

	var parentID string
	if p := trace.SpanContextFromContext(parent); p.IsValid() {
		parentID = p.SpanID().String()
	}
	b.renderer.OnNodeStart(s.SpanContext().SpanID().String(), parentID, s.Name(), s.StartTime())
}

// OnEnd completes the node row with the node's outcome.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil || !s.SpanContext().IsValid() {
		return
	}
	b.renderer.OnNodeComplete(s.SpanContext().SpanID().String(), s.EndTime(), nodeError(s))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(context.Context) error {
	return nil
}

// nodeError returns nil for a successful span. A node stopped because its
// build was already failing reports domain.ErrNodeCancelled, so only the node
// that broke the build shows its own error.
func nodeError(s sdktrace.ReadOnlySpan) error {
	if s.Status().Code != codes.Error {
		return nil
	}

	kind := "node"
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case domain.NodeCancelledAttr:
			if kv.Value.AsBool() {
				return domain.ErrNodeCancelled
			}
		case domain.NodeKindAttr:
			kind = kv.Value.AsString() + " node"
		}
	}

	if desc := s.Status().Description; desc != "" {
		return errors.New(desc)
	}
	return errors.New(kind + " failed")
}
