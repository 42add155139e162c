package tui

import "time"

// MsgBuildStart switches the header to its busy state.
type MsgBuildStart struct {
	Message string
}

// MsgBuildComplete leaves the header in a terminal state.
type MsgBuildComplete struct {
	Message string
	Err     error
}

// MsgNodeStart indicates a pipeline node or hook has started.
type MsgNodeStart struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// MsgNodeLog carries a chunk of output for a node.
type MsgNodeLog struct {
	SpanID string
	Data   []byte
}

// MsgNodeComplete indicates a node has finished.
type MsgNodeComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
