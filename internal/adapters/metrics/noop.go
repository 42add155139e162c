package metrics

import (
	"time"

	"go.trai.ch/loom/internal/core/ports"
)

var _ ports.Metrics = Noop{}

// Noop discards every measurement. It is used when metrics are disabled.
type Noop struct{}

// ObserveBuild does nothing.
func (Noop) ObserveBuild(string, time.Duration) {}

// ObserveNode does nothing.
func (Noop) ObserveNode(string, time.Duration, error) {}

// SSEClientConnected does nothing.
func (Noop) SSEClientConnected() {}

// SSEClientDisconnected does nothing.
func (Noop) SSEClientDisconnected() {}

// ObserveProxy does nothing.
func (Noop) ObserveProxy(string, int) {}
