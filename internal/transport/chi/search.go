package chi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/search/request"
)

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := queryInt(q, "limit")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	agencyID, err := queryInt64(q, "agencyId")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req, err := request.New(q.Get("query"), queryString(q, "region"), agencyID, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	id, ok := identityFromContext(r.Context())
	if !ok {
		s.handleDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, id, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setCompletionHeaders(w, usage)
	writeJSON(w, http.StatusOK, searchToDTO(resp))
}

// SearchStats handles GET /api/search/stats.
func (s *Server) SearchStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.search.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TotalProtocols: st.TotalProtocols,
		TotalAgencies:  st.TotalAgencies,
		RegionsCovered: st.RegionsCovered,
	})
}

// SearchByAgency handles GET /api/search/agency/{id}.
func (s *Server) SearchByAgency(w http.ResponseWriter, r *http.Request) {
	agencyID, err := pathID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	chunks, err := s.search.ByAgency(r.Context(), agencyID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]chunkResponse, len(chunks))
	for i, c := range chunks {
		out[i] = chunkToDTO(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func setCompletionHeaders(w http.ResponseWriter, usage *domain.CompletionUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Completion-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func queryString(q url.Values, key string) *string {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryInt parses an optional integer parameter. Present but malformed is invalid.
func queryInt(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidQuery, key)
	}
	return &v, nil
}

func queryInt64(q url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidQuery, key)
	}
	return &v, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", domain.ErrInvalidQuery)
	}
	return v, nil
}
