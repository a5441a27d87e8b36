// Package server exposes the dashboard gateway over HTTP: the aggregated
// project tree on the read side, task and cashflow passthrough mutations on
// the write side, and an SSE stream of mutation events.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/events"
)

// Server handles the gateway's HTTP surface.
type Server struct {
	svc       *dashboard.Service
	publisher events.Publisher
	sseHub    *sseHub
}

// New returns a Server over the given dashboard service and publisher.
func New(svc *dashboard.Service, p events.Publisher) *Server {
	return &Server{
		svc:       svc,
		publisher: p,
		sseHub:    newSSEHub(),
	}
}

// publish emits a mutation event to NATS and to connected SSE clients.
// Both deliveries are best-effort; failures are logged but never fail the
// mutation that produced the event.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the JSON error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
