// Package tui provides the interactive build progress display.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/loom/internal/ui/output"
	"go.trai.ch/loom/internal/ui/style"
)

const defaultLogLines = 8

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.New(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		State:   StateIdle,
		SpanMap: make(map[string]*NodeRow),
		Logs:    NewLogTail(defaultLogLines),
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.Spinner)),
	}
}

// WithDisableTick disables the spinner animation.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
//
//nolint:gocritic // hugeParam ignored
func (m Model) WithDisableTick() Model {
	m.DisableTick = true
	return m
}
