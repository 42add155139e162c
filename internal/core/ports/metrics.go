package ports

import "time"

// Metrics records development server and build measurements.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveBuild records a finished build with outcome "success" or "error".
	ObserveBuild(outcome string, duration time.Duration)
	// ObserveNode records one pipeline node run.
	ObserveNode(kind string, duration time.Duration, err error)
	// SSEClientConnected increments the connected build event client gauge.
	SSEClientConnected()
	// SSEClientDisconnected decrements the connected build event client gauge.
	SSEClientDisconnected()
	// ObserveProxy records a proxied request and the status relayed to the client.
	ObserveProxy(prefix string, status int)
}
