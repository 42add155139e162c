package tui

import (
	"bytes"
	"strings"
)

// LogTail keeps the last Limit complete lines written to it.
// A trailing partial line is held until its newline arrives.
type LogTail struct {
	Limit   int
	lines   []string
	partial bytes.Buffer
}

// NewLogTail creates a LogTail holding at most limit lines.
func NewLogTail(limit int) *LogTail {
	return &LogTail{Limit: limit}
}

// Write appends p, splitting it into lines.
func (l *LogTail) Write(p []byte) (int, error) {
	l.partial.Write(p)
	for {
		line, err := l.partial.ReadString('\n')
		if err != nil {
			l.partial.Reset()
			l.partial.WriteString(line)
			break
		}
		l.push(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Lines returns the retained lines, including any pending partial line.
func (l *LogTail) Lines() []string {
	out := append([]string(nil), l.lines...)
	if l.partial.Len() > 0 {
		out = append(out, l.partial.String())
		if l.Limit > 0 && len(out) > l.Limit {
			out = out[len(out)-l.Limit:]
		}
	}
	return out
}

func (l *LogTail) push(line string) {
	l.lines = append(l.lines, line)
	if l.Limit > 0 && len(l.lines) > l.Limit {
		l.lines = l.lines[len(l.lines)-l.Limit:]
	}
}
