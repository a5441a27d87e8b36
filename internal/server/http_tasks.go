package server

import (
	"encoding/json"
	"net/http"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/events"
)

// handleCreateTask handles POST /tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in dashboard.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.svc.CreateTask(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicTaskCreated, events.TaskCreated{ProjectKey: in.ProjectKey, Task: task})
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "record": task})
}

// handleUpdateTask handles PATCH /tasks/{id}.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch dashboard.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	task, err := s.svc.UpdateTask(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicTaskUpdated, events.TaskUpdated{Task: task})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "record": task})
}

// handleDeleteTask handles DELETE /tasks/{id}.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	del, err := s.svc.DeleteTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.publish(r.Context(), events.TopicTaskDeleted, events.TaskDeleted{ID: id})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": del})
}
