package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/loom/internal/core/ports"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnBuildStart forwards the busy state to the TUI.
func (r *Renderer) OnBuildStart(message string) {
	r.program.Send(MsgBuildStart{Message: message})
}

// OnBuildComplete forwards the terminal state to the TUI.
func (r *Renderer) OnBuildComplete(message string, err error) {
	r.program.Send(MsgBuildComplete{Message: message, Err: err})
}

// OnNodeStart forwards node start events to the TUI.
func (r *Renderer) OnNodeStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(MsgNodeStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnNodeLog forwards node output to the TUI.
func (r *Renderer) OnNodeLog(spanID string, data []byte) {
	r.program.Send(MsgNodeLog{SpanID: spanID, Data: data})
}

// OnNodeComplete forwards node completion events to the TUI.
func (r *Renderer) OnNodeComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgNodeComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
