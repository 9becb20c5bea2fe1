package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in characters (after trim).
	MaxQueryLength = 500
	DefaultLimit   = 20
	MinLimit       = 1
	MaxLimit       = 100
	// OverFetchFactor widens the store fetch so re-ranking sees more candidates.
	OverFetchFactor = 2
)

// Request is a validated search query.
type Request struct {
	query  string
	filter filter.Filter
	limit  int
}

// New validates and normalizes search parameters.
// The query is trimmed and must be non-empty. Limit: nil or <=0 -> 20, clamped to [1, 100].
func New(query string, region *string, agencyID *int64, limit *int) (Request, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}

	return Request{
		query:  q,
		filter: filter.Resolve(region, agencyID),
		limit:  EffectiveLimit(limit),
	}, nil
}

// EffectiveLimit applies the default and clamp rules to a requested limit.
func EffectiveLimit(requested *int) int {
	if requested == nil || *requested <= 0 {
		return DefaultLimit
	}
	return min(max(*requested, MinLimit), MaxLimit)
}

// Query returns the trimmed search text.
func (r *Request) Query() string { return r.query }

// Filter returns the resolved predicate.
func (r *Request) Filter() filter.Filter { return r.filter }

// Limit returns the effective result limit.
func (r *Request) Limit() int { return r.limit }

// FetchCount returns how many chunks the store should return.
func (r *Request) FetchCount() int { return r.limit * OverFetchFactor }
