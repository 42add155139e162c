package tui

import (
	"fmt"
	"strings"
	"time"

	"go.trai.ch/loom/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(m.header())
	s.WriteString("\n")

	for _, row := range m.Nodes {
		s.WriteString("  " + m.renderRow(row) + "\n")
	}

	if m.Logs != nil {
		for _, line := range m.Logs.Lines() {
			s.WriteString("    " + style.Muted.Render(line) + "\n")
		}
	}

	if m.State == StateError && m.Err != nil {
		s.WriteString("\n" + style.Failure.Render(m.Err.Error()) + "\n")
	}

	return s.String()
}

func (m *Model) header() string {
	switch m.State {
	case StateBuilding:
		return m.Spinner.View() + " " + m.Message
	case StateSuccess:
		return style.Success.Render(style.Check) + " " + m.Message
	case StateError:
		return style.Failure.Render(style.Cross) + " " + m.Message
	default:
		return style.Muted.Render("waiting for first build")
	}
}

func (m *Model) renderRow(row *NodeRow) string {
	switch row.Status {
	case StatusDone:
		return style.Success.Render(style.Check) + " " + row.Name + " " +
			style.Muted.Render(fmt.Sprintf("(%v)", row.Duration.Round(time.Millisecond)))
	case StatusError:
		return style.Failure.Render(style.Cross) + " " + row.Name
	default:
		return style.Accent.Render(style.Dot) + " " + row.Name
	}
}
