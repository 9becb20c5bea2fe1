// Package filter resolves optional region/agency filters into one of four predicate shapes.
package filter

import "strings"

// Kind is the filter combination present on a search.
type Kind string

// Filter kind constants.
const (
	// KindNone searches the whole corpus.
	KindNone         Kind = "none"
	KindRegion       Kind = "region"
	KindAgency       Kind = "agency"
	KindRegionAgency Kind = "region_agency"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindNone || k == KindRegion || k == KindAgency || k == KindRegionAgency
}

// Filter is a resolved predicate: its kind plus the values that kind binds.
type Filter struct {
	kind     Kind
	region   string
	agencyID int64
}

// Resolve picks the predicate shape from which filters are present.
// A blank region counts as absent.
func Resolve(region *string, agencyID *int64) Filter {
	var r string
	if region != nil {
		r = strings.TrimSpace(*region)
	}
	hasRegion := r != ""
	hasAgency := agencyID != nil

	switch {
	case hasRegion && hasAgency:
		return Filter{kind: KindRegionAgency, region: r, agencyID: *agencyID}
	case hasRegion:
		return Filter{kind: KindRegion, region: r}
	case hasAgency:
		return Filter{kind: KindAgency, agencyID: *agencyID}
	default:
		return Filter{kind: KindNone}
	}
}

// Kind returns the predicate shape.
func (f Filter) Kind() Kind {
	if f.kind == "" {
		return KindNone
	}
	return f.kind
}

// Region returns the region value (empty unless the kind binds a region).
func (f Filter) Region() string { return f.region }

// AgencyID returns the agency value (zero unless the kind binds an agency).
func (f Filter) AgencyID() int64 { return f.agencyID }

// HasRegion reports whether the predicate restricts by region.
func (f Filter) HasRegion() bool {
	return f.kind == KindRegion || f.kind == KindRegionAgency
}

// HasAgency reports whether the predicate restricts by agency.
func (f Filter) HasAgency() bool {
	return f.kind == KindAgency || f.kind == KindRegionAgency
}

// ContainsPattern turns free text into a literal substring pattern for LIKE/ILIKE
// with '\' as the escape character: %, _ and \ in the text match themselves.
func ContainsPattern(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte('%')
	for _, r := range text {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('%')
	return b.String()
}
