package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/internal/adapters/telemetry"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = telemetry.NoOpTracer{}
}

func TestProvider_WithoutRenderer(t *testing.T) {
	provider := telemetry.NewProvider(nil)
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	tracer := provider.Tracer("test-tracer")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "css app.css")
	require.NotNil(t, span)

	span.SetAttribute(domain.NodeKindAttr, "css")
	span.SetAttribute("loom.node.count", 3)
	span.SetAttribute("loom.node.paths", []string{"a", "b"})

	// Without a renderer output is recorded as a span event.
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}
