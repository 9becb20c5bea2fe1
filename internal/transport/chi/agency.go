package chi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/protoguide/protoguide/internal/domain"
)

// ListAgencies handles GET /api/agencies.
func (s *Server) ListAgencies(w http.ResponseWriter, r *http.Request) {
	list, err := s.agencies.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]agencyResponse, len(list))
	for i, a := range list {
		out[i] = agencyToDTO(a)
	}
	writeJSON(w, http.StatusOK, out)
}

// ListRegions handles GET /api/agencies/regions.
func (s *Server) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.agencies.ListRegions(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]regionResponse, len(regions))
	for i, rg := range regions {
		out[i] = regionResponse{Region: rg.Region, AgencyCount: rg.AgencyCount, ProtocolCount: rg.ProtocolCount}
	}
	writeJSON(w, http.StatusOK, out)
}

// ListAgenciesByRegion handles GET /api/agencies/by-region.
func (s *Server) ListAgenciesByRegion(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		s.handleDomainError(w, r, fmt.Errorf("%w: region is required", domain.ErrInvalidQuery))
		return
	}
	list, err := s.agencies.ListByRegion(r.Context(), region)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]agencyCountResponse, len(list))
	for i, a := range list {
		out[i] = agencyCountResponse{ID: a.ID, Name: a.Name, Region: a.Region, ProtocolCount: a.ProtocolCount}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetAgency handles GET /api/agencies/{id}.
func (s *Server) GetAgency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	a, err := s.agencies.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agencyToDTO(a))
}
