package ports

import "go.trai.ch/loom/internal/core/domain"

// EventPublisher is the producer side of the build event bus.
//
//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks
type EventPublisher interface {
	// Publish delivers the event to every current subscriber. It never blocks.
	Publish(event domain.BuildEvent)
}
