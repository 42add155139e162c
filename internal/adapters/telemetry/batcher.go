// Package telemetry bridges OpenTelemetry spans around pipeline nodes to the progress renderer.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultLogLimit is how many buffered bytes force a flush.
	DefaultLogLimit = 4096
	// DefaultLogInterval is how often complete lines are flushed.
	DefaultLogInterval = 50 * time.Millisecond
)

var errLogBatcherClosed = zerr.New("node log is closed")

// LogBatcher groups node output into whole lines before it reaches the renderer.
// Hooks run in a pty, so "\r\n" becomes "\n" and a line rewritten with bare
// carriage returns keeps only its final text. An unterminated line is held
// back until it is terminated, grows past the limit, or the batcher closes.
// It is safe for concurrent use.
type LogBatcher struct {
	limit    int
	interval time.Duration
	onFlush  func([]byte)

	mu      sync.Mutex
	lines   bytes.Buffer
	partial []byte
	ticker  *time.Ticker
	stop    chan struct{}
	closed  bool
}

// NewLogBatcher returns a LogBatcher calling onFlush with each batch of lines.
// Non-positive limits select the defaults. Call Close to stop the background ticker.
func NewLogBatcher(limit int, interval time.Duration, onFlush func([]byte)) *LogBatcher {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if interval <= 0 {
		interval = DefaultLogInterval
	}

	b := &LogBatcher{
		limit:    limit,
		interval: interval,
		onFlush:  onFlush,
		ticker:   time.NewTicker(interval),
		stop:     make(chan struct{}),
	}
	go b.run()
	return b
}

// Write splits p into lines. It flushes as soon as the buffered output reaches the limit.
func (b *LogBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errLogBatcherClosed
	}

	rest := p
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			b.partial = append(b.partial, rest...)
			break
		}
		b.partial = append(b.partial, rest[:i]...)
		b.endLine(true)
		rest = rest[i+1:]
	}

	if len(b.partial) >= b.limit {
		b.endLine(false)
	}
	if b.lines.Len() >= b.limit {
		b.flushLocked()
		b.ticker.Reset(b.interval)
	}
	return len(p), nil
}

// Flush sends the complete lines buffered so far.
func (b *LogBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.flushLocked()
}

// Close stops the ticker and flushes everything, including an unterminated line.
func (b *LogBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.stop)

	if len(b.partial) > 0 {
		b.endLine(false)
	}
	b.flushLocked()
	return nil
}

func (b *LogBatcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stop:
			b.ticker.Stop()
			return
		}
	}
}

// endLine moves the pending line into the batch. Must be called with mu held.
func (b *LogBatcher) endLine(newline bool) {
	line := bytes.TrimSuffix(b.partial, []byte("\r"))
	if i := bytes.LastIndexByte(line, '\r'); i >= 0 {
		line = line[i+1:]
	}
	b.lines.Write(line)
	if newline {
		b.lines.WriteByte('\n')
	}
	b.partial = b.partial[:0]
}

// flushLocked must be called with mu held. onFlush runs under the lock so
// batches reach the callback in write order.
func (b *LogBatcher) flushLocked() {
	if b.lines.Len() == 0 {
		return
	}

	data := bytes.Clone(b.lines.Bytes())
	b.lines.Reset()

	if b.onFlush != nil {
		b.onFlush(data)
	}
}
