// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeToggles counts like toggles by target (story, comment) and result (liked, unliked, error).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_like_toggles_total",
		Help: "Total number of like toggles",
	}, []string{"target", "result"})

	// Adoptions counts adoption attempts by result.
	Adoptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_comment_adoptions_total",
		Help: "Total number of comment adoption attempts by result",
	}, []string{"result"})

	// EmbeddingRequests counts calls to the embedding service by outcome.
	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_embedding_requests_total",
		Help: "Total number of embedding service requests by outcome",
	}, []string{"outcome"})

	// EmbeddingLatency records embedding service round-trip time.
	EmbeddingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reso_embedding_latency_seconds",
		Help:    "Embedding service latency in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2, 4, 8},
	})

	// Recommendations counts similar-story lists by the source that produced them.
	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_recommendations_total",
		Help: "Total number of similar-story recommendations by source",
	}, []string{"source"})

	// SessionValidations counts session lookups by result (valid, invalid, error).
	SessionValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_session_validations_total",
		Help: "Total number of session validations by result",
	}, []string{"result"})

	// TxRetries counts transactions re-run after a store error.
	TxRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reso_tx_retries_total",
		Help: "Total number of retried transactions by operation",
	}, []string{"operation"})
)

// ObserveEmbedding records one embedding call.
func ObserveEmbedding(outcome string, start time.Time) {
	EmbeddingRequests.WithLabelValues(outcome).Inc()
	EmbeddingLatency.Observe(time.Since(start).Seconds())
}
