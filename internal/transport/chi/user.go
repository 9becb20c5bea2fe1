package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/protoguide/protoguide/internal/domain"
)

const maxBodyBytes = 1 << 16

// Me handles GET /api/users/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(id, s.quota.Today(), s.quota.Limit(id), s.quota.Remaining(id)))
}

// History handles GET /api/users/history.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}
	items, err := s.history.List(r.Context(), id.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyToDTO(items))
}

// SelectAgency handles PUT /api/users/agency.
func (s *Server) SelectAgency(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	var req selectAgencyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	if req.AgencyID == nil || *req.AgencyID <= 0 {
		s.handleDomainError(w, r, fmt.Errorf("%w: agencyId must be a positive integer", domain.ErrInvalidQuery))
		return
	}

	if err := s.identities.SelectAgency(r.Context(), id, *req.AgencyID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
