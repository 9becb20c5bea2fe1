package synthesis

import (
	"strings"

	"github.com/protoguide/protoguide/internal/domain/search/result"
)

// SystemPrompt frames the model as a field assistant.
const SystemPrompt = "You are an EMS protocol assistant. Provide concise, actionable answers based on the provided protocol excerpts. \n" +
	"Focus on:\n" +
	"- Key steps and interventions\n" +
	"- Medication dosages when mentioned\n" +
	"- Critical decision points\n" +
	"Keep responses brief and field-ready. Always cite the protocol number."

const blockSeparator = "\n---\n"

// BuildContext renders up to maxResults results as protocol blocks, each body
// cut to excerptRunes characters.
func BuildContext(results []result.Result, maxResults, excerptRunes int) string {
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	blocks := make([]string, 0, len(results))
	for i := range results {
		r := &results[i]
		var b strings.Builder
		b.WriteString("Protocol: ")
		b.WriteString(r.ProtocolNumber())
		b.WriteString(" - ")
		b.WriteString(r.Title())
		b.WriteString("\nAgency: ")
		b.WriteString(r.AgencyName())
		b.WriteString(" (")
		b.WriteString(r.Region())
		b.WriteString(")\nContent: ")
		b.WriteString(truncateRunes(r.Content(), excerptRunes))
		b.WriteString("\n")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, blockSeparator)
}

// BuildUserPrompt wraps the question and rendered context.
func BuildUserPrompt(query, context string) string {
	return "Question: " + query + "\n\nRelevant Protocols:\n" + context +
		"\n\nProvide a concise answer based on these protocols."
}

// truncateRunes never splits a multi-byte character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
