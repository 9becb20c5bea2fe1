package synthesis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protoguide/protoguide/internal/domain/agency"
	"github.com/protoguide/protoguide/internal/domain/protocol"
	"github.com/protoguide/protoguide/internal/domain/search/result"
)

func TestBuildContext_BlockFormat(t *testing.T) {
	ag := &agency.Agency{Name: "Solano", Region: "CA"}
	results := []result.Result{
		result.New(protocol.Chunk{Number: "P-100", Title: "Cardiac Arrest", Content: "Begin CPR."}, ag, 0),
		result.New(protocol.Chunk{Number: "P-200", Title: "Stroke", Content: "Check glucose."}, nil, 1),
	}

	got := BuildContext(results, 5, 500)
	want := "Protocol: P-100 - Cardiac Arrest\nAgency: Solano (CA)\nContent: Begin CPR.\n" +
		"\n---\n" +
		"Protocol: P-200 - Stroke\nAgency:  ()\nContent: Check glucose.\n"
	assert.Equal(t, want, got)
}

func TestBuildContext_OnlyFirstResults(t *testing.T) {
	got := BuildContext(makeResults(8), 5, 500)
	assert.Equal(t, 5, strings.Count(got, "Protocol: "))
	assert.Equal(t, 4, strings.Count(got, blockSeparator))
	assert.NotContains(t, got, "Title F")
}

func TestBuildContext_TruncatesBody(t *testing.T) {
	body := strings.Repeat("é", 600)
	results := []result.Result{result.New(protocol.Chunk{Number: "1", Title: "t", Content: body}, nil, 0)}

	got := BuildContext(results, 5, 500)
	assert.Contains(t, got, "Content: "+strings.Repeat("é", 500)+"\n")
	assert.NotContains(t, got, strings.Repeat("é", 501))
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"日本語テキスト", 3, "日本語"},
		{"abc", 0, ""},
		{"", 4, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, truncateRunes(tc.in, tc.n), "truncateRunes(%q, %d)", tc.in, tc.n)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("dose of epi?", "CTX")
	assert.Equal(t, "Question: dose of epi?\n\nRelevant Protocols:\nCTX\n\nProvide a concise answer based on these protocols.", got)
}
