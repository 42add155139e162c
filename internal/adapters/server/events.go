package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/loom/internal/core/domain"
)

const pingInterval = 30 * time.Second

// buildEvents streams build events to one client as server-sent events.
// The stream ends when the client goes away or the bus closes.
func (s *Server) buildEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := s.bus.Subscribe()
	defer sub.Close()

	id := uuid.NewString()
	s.metrics.SSEClientConnected()
	defer s.metrics.SSEClientDisconnected()
	s.logger.Debug("build event client connected: " + id)
	defer s.logger.Debug("build event client disconnected: " + id)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		return
	}

	events := make(chan domain.BuildEvent)
	go func() {
		defer close(events)
		for event := range sub.Events(ctx) {
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error(err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", domain.BuildEventName, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
