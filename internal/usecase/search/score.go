package search

import (
	"sort"
	"strings"

	"github.com/protoguide/protoguide/internal/domain/search/result"
)

// Per-token weights. A token in both title and body earns both.
const (
	titleWeight = 2
	bodyWeight  = 1
)

// score assigns each result the fraction of the best possible token score
// and sorts descending. Ties keep their incoming order. A query with no
// tokens scores every result 0 and leaves the order unchanged.
func score(query string, results []result.Result) []result.Result {
	tokens := strings.Fields(strings.ToLower(query))
	maxScore := float64(len(tokens) * (titleWeight + bodyWeight))

	for i := range results {
		if maxScore == 0 {
			results[i] = results[i].WithScore(0)
			continue
		}
		title := strings.ToLower(results[i].Title())
		body := strings.ToLower(results[i].Content())

		total := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) {
				total += titleWeight
			}
			if strings.Contains(body, tok) {
				total += bodyWeight
			}
		}
		results[i] = results[i].WithScore(float64(total) / maxScore)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score() > results[b].Score()
	})
	return results
}
