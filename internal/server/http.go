package server

import (
	"errors"
	"net/http"

	"github.com/carvallo/girder/internal/airtable"
	"github.com/carvallo/girder/internal/dashboard"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /health) must include a
// valid Authorization: Bearer <token> header. corsOrigin is echoed on every
// response; OPTIONS preflights are answered before routing.
func (s *Server) NewHTTPHandler(authToken, corsOrigin string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleGetProjects)
	mux.HandleFunc("GET /projects", s.handleGetProjects)
	mux.HandleFunc("POST /tasks", s.handleCreateTask)
	mux.HandleFunc("PATCH /tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /cashflow", s.handleCreateCashflow)
	mux.HandleFunc("PATCH /cashflow/{id}", s.handleUpdateCashflow)
	mux.HandleFunc("DELETE /cashflow/{id}", s.handleDeleteCashflow)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events/stream", s.handleEventStream)
	// Unknown routes get the JSON envelope, not Go's default text 404.
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = RecoveryMiddleware(h)
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	h = CORSMiddleware(corsOrigin, h)
	return h
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "unknown route "+r.URL.Path)
}

// writeServiceError maps service-layer errors onto the HTTP error contract:
// invalid input and unknown project keys are 400, upstream Airtable failures
// and everything else are 500. Upstream errors keep the backend's status and
// body in the message for diagnosability.
func writeServiceError(w http.ResponseWriter, err error) {
	var ie dashboard.InputError
	var unknownKey *dashboard.UnknownProjectKeyError
	var apiErr *airtable.APIError
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &unknownKey):
		writeError(w, http.StatusBadRequest, unknownKey.Error())
	case errors.As(err, &apiErr):
		writeError(w, http.StatusInternalServerError, apiErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
