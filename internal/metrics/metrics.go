// Package metrics provides the centralized Prometheus metrics registry for
// the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "predictions_total",
		Help:      "Total number of ensemble predictions served",
	}, []string{"class"})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	PredictionCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
	AdjustmentFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "adjustment_fallbacks_total",
		Help:      "Total number of adjustments that fell back to the neutral probability",
	})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "training_runs_total",
		Help:      "Total number of model training runs",
	}, []string{"class", "status"})
	RecordsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "records_ingested_total",
		Help:      "Total number of player performance records ingested",
	})
	RecordsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wicket_predictor",
		Name:      "records_rejected_total",
		Help:      "Total number of records rejected during validation",
	})
)

// Gauge metrics
var (
	ModelTreeCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wicket_predictor",
		Name:      "model_tree_count",
		Help:      "Number of trees in the active model per stat class",
	}, []string{"class"})
	ModelTrainingSamples = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wicket_predictor",
		Name:      "model_training_samples",
		Help:      "Number of training examples used by the active model",
	}, []string{"class"})
	ModelAgeSeconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wicket_predictor",
		Name:      "model_age_seconds",
		Help:      "Age of the active model per stat class",
	}, []string{"class"})
)

// Histogram metrics
var (
	TrainingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wicket_predictor",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	}, []string{"class"})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wicket_predictor",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of single-player predictions in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(PredictionCacheMissesTotal)
		registry.MustRegister(AdjustmentFallbacksTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(RecordsIngestedTotal)
		registry.MustRegister(RecordsRejectedTotal)

		// Register gauge metrics
		registry.MustRegister(ModelTreeCount)
		registry.MustRegister(ModelTrainingSamples)
		registry.MustRegister(ModelAgeSeconds)

		// Register histogram metrics
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(PredictionLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a served prediction for a stat class.
func RecordPrediction(class string, latencySeconds float64) {
	PredictionsTotal.WithLabelValues(class).Inc()
	PredictionLatency.Observe(latencySeconds)
}

// RecordCacheHit records a prediction cache hit.
func RecordCacheHit() {
	PredictionCacheHitsTotal.Inc()
}

// RecordCacheMiss records a prediction cache miss.
func RecordCacheMiss() {
	PredictionCacheMissesTotal.Inc()
}

// RecordAdjustmentFallback records a neutral-probability fallback.
func RecordAdjustmentFallback() {
	AdjustmentFallbacksTotal.Inc()
}

// RecordTrainingRun records a completed training run for a stat class.
func RecordTrainingRun(class, status string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(class, status).Inc()
	TrainingDuration.WithLabelValues(class).Observe(durationSeconds)
}

// UpdateActiveModel updates the gauges describing a freshly published model.
func UpdateActiveModel(class string, trees, samples int, ageSeconds float64) {
	ModelTreeCount.WithLabelValues(class).Set(float64(trees))
	ModelTrainingSamples.WithLabelValues(class).Set(float64(samples))
	ModelAgeSeconds.WithLabelValues(class).Set(ageSeconds)
}

// RecordIngestedRecords adds to the ingested records counter.
func RecordIngestedRecords(count int) {
	RecordsIngestedTotal.Add(float64(count))
}

// RecordRejectedRecords adds to the rejected records counter.
func RecordRejectedRecords(count int) {
	RecordsRejectedTotal.Add(float64(count))
}
