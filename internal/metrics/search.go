package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline and quota metrics.
var (
	SearchResultsCount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results_count",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"filter"},
	)

	AgencyLookupMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "agency_lookup_misses_total",
			Help:      "Results enriched without agency data",
		},
	)

	QuotaDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "quota_decisions_total",
			Help:      "Quota guard decisions",
		},
		[]string{"tier", "decision"}, // "allowed" / "rejected"
	)

	HistoryWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "history_write_errors_total",
			Help:      "Failed background history writes",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and quota metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchResultsCount)
	prometheus.MustRegister(AgencyLookupMissesTotal)
	prometheus.MustRegister(QuotaDecisionsTotal)
	prometheus.MustRegister(HistoryWriteErrorsTotal)
	searchMetricsRegistered = true
}
