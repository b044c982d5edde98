// Package metrics Prometheus 指標。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 外部 API 結果
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeNoKey       = "no_key"
	OutcomeQuota       = "quota_exhausted"
	OutcomeCircuitOpen = "circuit_open"
)

var (
	// ExternalCallsTotal 外部 API 調用次數（含未實際發出的）
	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridge_external_calls_total",
			Help: "External API calls by service, operation and outcome",
		},
		[]string{"service", "operation", "outcome"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fridge_external_call_duration_seconds",
			Help:    "Duration of external API calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"service", "operation"},
	)

	// RecommendationsTotal 推薦請求，mode 為 strict/loose
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridge_recommendations_total",
			Help: "Recipe recommendation requests by match mode",
		},
		[]string{"mode"},
	)

	// TranscriptStepsTotal 步驟來源：captions/description/none
	TranscriptStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridge_transcript_requests_total",
			Help: "Transcript step extraction requests by result source",
		},
		[]string{"source"},
	)

	CatalogRecipes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fridge_catalog_recipes",
		Help: "Recipes loaded into the match index",
	})
)

// RecordExternalCall 記錄一次外部 API 調用
func RecordExternalCall(service, operation, outcome string, d time.Duration) {
	ExternalCallsTotal.WithLabelValues(service, operation, outcome).Inc()
	if d > 0 {
		ExternalCallDuration.WithLabelValues(service, operation).Observe(d.Seconds())
	}
}
