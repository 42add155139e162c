package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress output.
// It drives either an interactive spinner or linear CI logs from the same calls.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer. Asynchronous renderers launch their loop here.
	Start(ctx context.Context) error

	// Stop signals the renderer to flush and shut down.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnBuildStart switches the indicator to its busy state.
	OnBuildStart(message string)

	// OnBuildComplete leaves the indicator in a terminal state.
	// err is nil for a successful build.
	OnBuildComplete(message string, err error)

	// OnNodeStart is called when a pipeline node or hook begins.
	OnNodeStart(spanID, parentID, name string, startTime time.Time)

	// OnNodeLog is called when a node emits output.
	// data may contain partial lines or ANSI sequences.
	OnNodeLog(spanID string, data []byte)

	// OnNodeComplete is called when a node finishes. err is nil on success.
	OnNodeComplete(spanID string, endTime time.Time, err error)
}
