package server

import "net/http"

// handleGetProjects handles GET / and GET /projects: the aggregated tree.
func (s *Server) handleGetProjects(w http.ResponseWriter, r *http.Request) {
	tree, err := s.svc.FetchTree(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": tree})
}
