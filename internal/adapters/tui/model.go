package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// BuildState is the state of the build indicator.
type BuildState string

const (
	// StateIdle means no build has started yet.
	StateIdle BuildState = "Idle"
	// StateBuilding means a build is in progress.
	StateBuilding BuildState = "Building"
	// StateSuccess means the last build succeeded.
	StateSuccess BuildState = "Success"
	// StateError means the last build failed.
	StateError BuildState = "Error"
)

// NodeStatus represents the current state of a node.
type NodeStatus string

const (
	// StatusRunning indicates the node is executing.
	StatusRunning NodeStatus = "Running"
	// StatusDone indicates the node completed successfully.
	StatusDone NodeStatus = "Done"
	// StatusError indicates the node failed.
	StatusError NodeStatus = "Error"
)

// NodeRow is one node in the build list.
type NodeRow struct {
	Name     string
	Status   NodeStatus
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Model represents the TUI state for one build at a time.
type Model struct {
	State       BuildState
	Message     string
	Err         error
	Nodes       []*NodeRow
	SpanMap     map[string]*NodeRow
	Logs        *LogTail
	Spinner     spinner.Model
	DisableTick bool
}

// Init starts the spinner unless ticking is disabled.
func (m *Model) Init() tea.Cmd {
	if m.DisableTick {
		return nil
	}
	return m.Spinner.Tick
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if k := msg.String(); k == "q" || k == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.DisableTick {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case MsgBuildStart:
		m.State = StateBuilding
		m.Message = msg.Message
		m.Err = nil
		m.Nodes = nil
		m.SpanMap = make(map[string]*NodeRow)
		m.Logs = NewLogTail(m.logLimit())

	case MsgBuildComplete:
		m.Message = msg.Message
		m.Err = msg.Err
		if msg.Err != nil {
			m.State = StateError
		} else {
			m.State = StateSuccess
		}

	case MsgNodeStart:
		if m.SpanMap == nil {
			m.SpanMap = make(map[string]*NodeRow)
		}
		row := &NodeRow{Name: msg.Name, Status: StatusRunning, Started: msg.StartTime}
		m.Nodes = append(m.Nodes, row)
		m.SpanMap[msg.SpanID] = row

	case MsgNodeLog:
		if _, ok := m.SpanMap[msg.SpanID]; ok {
			if m.Logs == nil {
				m.Logs = NewLogTail(m.logLimit())
			}
			_, _ = m.Logs.Write(msg.Data)
		}

	case MsgNodeComplete:
		if row, ok := m.SpanMap[msg.SpanID]; ok {
			row.Duration = msg.EndTime.Sub(row.Started)
			row.Err = msg.Err
			if msg.Err != nil {
				row.Status = StatusError
			} else {
				row.Status = StatusDone
			}
		}
	}

	return m, nil
}

func (m *Model) logLimit() int {
	if m.Logs != nil && m.Logs.Limit > 0 {
		return m.Logs.Limit
	}
	return defaultLogLines
}
