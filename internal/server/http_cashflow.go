package server

import (
	"encoding/json"
	"net/http"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/events"
)

// handleCreateCashflow handles POST /cashflow.
func (s *Server) handleCreateCashflow(w http.ResponseWriter, r *http.Request) {
	var in dashboard.CashflowInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.svc.CreateCashflow(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCashflowCreated, events.CashflowCreated{ProjectKey: in.ProjectKey, Entry: entry})
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "record": entry})
}

// handleUpdateCashflow handles PATCH /cashflow/{id}.
func (s *Server) handleUpdateCashflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch dashboard.CashflowPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, err := s.svc.UpdateCashflow(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCashflowUpdated, events.CashflowUpdated{Entry: entry})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "record": entry})
}

// handleDeleteCashflow handles DELETE /cashflow/{id}.
func (s *Server) handleDeleteCashflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	del, err := s.svc.DeleteCashflow(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicCashflowDeleted, events.CashflowDeleted{ID: id})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": del})
}
