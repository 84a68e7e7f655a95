package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecipeRequestsTotal 食譜請求結果
	RecipeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_requests_total",
			Help: "Recipe requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// RecipeSourceTotal 食譜來源（generator / fallback）與原因
	RecipeSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_source_total",
			Help: "Recipe candidate source selections",
		},
		[]string{"source", "reason"},
	)

	// PredictionsTotal 分類結果
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_predictions_total",
			Help: "Classifier predictions by model, label and fallback flag",
		},
		[]string{"model", "label", "fallback"},
	)

	// GeneratorDuration 外部生成服務耗時
	GeneratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_generator_duration_seconds",
			Help:    "Latency of external generator calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"provider", "status"},
	)

	// GeneratorBreakerState 熔斷器狀態（0 closed, 1 half-open, 2 open）
	GeneratorBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_generator_breaker_state",
			Help: "Circuit breaker state per generator",
		},
		[]string{"name"},
	)

	// CacheLookupsTotal 生成結果緩存查詢
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_generator_cache_lookups_total",
			Help: "Generator response cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)
)

// BoolLabel 將布林轉為標籤值
func BoolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
