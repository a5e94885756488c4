package api

import (
	"net/http"
)

// healthResponse reports liveness plus whether the engine directory is
// currently resolvable. Engine is advisory: the service is healthy even
// when the engine is missing, since the directory may appear between
// checks and every invocation re-resolves anyway.
type healthResponse struct {
	Status string `json:"status"`
	Engine string `json:"engine"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	engineStatus := "ok"
	if _, err := s.probe.Resolve(); err != nil {
		engineStatus = "unresolved"
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Engine: engineStatus,
	})
}
