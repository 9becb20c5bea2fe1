package chi

import (
	"net/http"

	"github.com/protoguide/protoguide/internal/version"
)

// Health handles GET /health. It always answers 200 and reports each probe.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Ready handles GET /ready for load balancers.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if !s.health.Check(r.Context()).Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
