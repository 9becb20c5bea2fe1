package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func idPtr(i int64) *int64    { return &i }

func TestResolve_FourShapes(t *testing.T) {
	tests := []struct {
		name       string
		region     *string
		agency     *int64
		wantKind   Kind
		wantRegion string
		wantAgency int64
	}{
		{"neither", nil, nil, KindNone, "", 0},
		{"region only", strPtr("CA"), nil, KindRegion, "CA", 0},
		{"agency only", nil, idPtr(7), KindAgency, "", 7},
		{"both", strPtr("CA"), idPtr(7), KindRegionAgency, "CA", 7},
		{"blank region is absent", strPtr("  "), idPtr(7), KindAgency, "", 7},
		{"region trimmed", strPtr(" CA "), nil, KindRegion, "CA", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Resolve(tc.region, tc.agency)
			assert.Equal(t, tc.wantKind, f.Kind())
			assert.Equal(t, tc.wantRegion, f.Region())
			assert.Equal(t, tc.wantAgency, f.AgencyID())
			assert.True(t, f.Kind().IsValid())
		})
	}
}

func TestFilter_HasFlags(t *testing.T) {
	f := Resolve(strPtr("CA"), idPtr(1))
	assert.True(t, f.HasRegion())
	assert.True(t, f.HasAgency())

	var zero Filter
	assert.Equal(t, KindNone, zero.Kind())
	assert.False(t, zero.HasRegion())
	assert.False(t, zero.HasAgency())
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cardiac arrest", "%cardiac arrest%"},
		{"100%", `%100\%%`},
		{"o_2", `%o\_2%`},
		{`a\b`, `%a\\b%`},
		{"", "%%"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ContainsPattern(tc.in), tc.in)
	}
}

func TestKind_IsValid(t *testing.T) {
	assert.False(t, Kind("bogus").IsValid())
}
