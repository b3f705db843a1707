package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Count of served recommendation lists by outcome.",
		},
		[]string{"outcome"},
	)

	ModelScoringFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "model_scoring_failures_total",
			Help: "Count of best-effort scoring calls that degraded to an empty score map.",
		},
	)

	CatalogMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_catalog_misses_total",
			Help: "Count of model candidate wine IDs missing from the catalog.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendationsServedTotal,
		ModelScoringFailuresTotal,
		CatalogMissesTotal,
	)
}
