// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ai_interview_orchestrator"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Session metrics
	SessionsCreated  prometheus.Counter
	SessionsActive   prometheus.Gauge
	SessionsFinished *prometheus.CounterVec

	// Turn metrics
	TurnsTotal    prometheus.Counter
	TurnsRejected *prometheus.CounterVec
	TurnDuration  prometheus.Histogram
	FragmentsSent prometheus.Counter

	// Evaluation metrics
	EvaluationsScheduled prometheus.Counter
	EvaluationsCompleted prometheus.Counter
	EvaluationsFailed    prometheus.Counter
	EvaluationLatency    prometheus.Histogram

	// Finalizer metrics
	ReportsFinalized  *prometheus.CounterVec
	FinalizerDuration prometheus.Histogram

	// Upstream metrics
	UpstreamLatency *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec

	// Transport metrics
	ConnectionsActive prometheus.Gauge
	InboundEvents     *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of interview sessions created",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions with a live websocket connection",
		}),
		SessionsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Total number of finished sessions",
		}, []string{"status"}),

		TurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total number of interviewer turns generated",
		}),
		TurnsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_rejected_total",
			Help:      "Total number of turn requests rejected",
		}, []string{"reason"}),
		TurnDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "End-to-end duration of one streamed interviewer turn",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		FragmentsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_sent_total",
			Help:      "Total number of streamed text fragments forwarded",
		}),

		EvaluationsScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_scheduled_total",
			Help:      "Total number of background answer evaluations scheduled",
		}),
		EvaluationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_completed_total",
			Help:      "Total number of answer evaluations stored",
		}),
		EvaluationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_failed_total",
			Help:      "Total number of answer evaluations dropped after judging failure",
		}),
		EvaluationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_latency_seconds",
			Help:      "Latency of one background answer evaluation",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		ReportsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_finalized_total",
			Help:      "Total number of final reports persisted",
		}, []string{"status"}),
		FinalizerDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "finalizer_duration_seconds",
			Help:      "Duration of report finalization including evaluator waits",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),

		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of upstream provider calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30},
		}, []string{"provider", "operation"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Total number of upstream provider errors",
		}, []string{"provider", "error_type"}),

		ConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections_active",
			Help:      "Number of active websocket connections",
		}),
		InboundEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_inbound_events_total",
			Help:      "Total number of inbound websocket events by type",
		}, []string{"type"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordSessionCreated records a new session being created.
func (m *Metrics) RecordSessionCreated() {
	m.SessionsCreated.Inc()
}

// RecordSessionFinished records a session reaching a terminal status.
func (m *Metrics) RecordSessionFinished(status string) {
	m.SessionsFinished.WithLabelValues(status).Inc()
}

// RecordConnectionOpen records a websocket connection being registered.
func (m *Metrics) RecordConnectionOpen() {
	m.ConnectionsActive.Inc()
	m.SessionsActive.Inc()
}

// RecordConnectionClosed records a websocket connection being unregistered.
func (m *Metrics) RecordConnectionClosed() {
	m.ConnectionsActive.Dec()
	m.SessionsActive.Dec()
}

// RecordInboundEvent records one inbound websocket event.
func (m *Metrics) RecordInboundEvent(eventType string) {
	m.InboundEvents.WithLabelValues(eventType).Inc()
}

// RecordTurn records a completed interviewer turn.
func (m *Metrics) RecordTurn(durationSeconds float64) {
	m.TurnsTotal.Inc()
	m.TurnDuration.Observe(durationSeconds)
}

// RecordTurnRejected records a turn request that was refused.
func (m *Metrics) RecordTurnRejected(reason string) {
	m.TurnsRejected.WithLabelValues(reason).Inc()
}

// RecordFragment records one streamed fragment forwarded to the transport.
func (m *Metrics) RecordFragment() {
	m.FragmentsSent.Inc()
}

// RecordEvaluationScheduled records a background evaluation being spawned.
func (m *Metrics) RecordEvaluationScheduled() {
	m.EvaluationsScheduled.Inc()
}

// RecordEvaluationDone records a background evaluation outcome.
func (m *Metrics) RecordEvaluationDone(err error, latencySeconds float64) {
	m.EvaluationLatency.Observe(latencySeconds)
	if err != nil {
		m.EvaluationsFailed.Inc()
		return
	}
	m.EvaluationsCompleted.Inc()
}

// RecordFinalized records a persisted final report.
func (m *Metrics) RecordFinalized(status string, durationSeconds float64) {
	m.ReportsFinalized.WithLabelValues(status).Inc()
	m.FinalizerDuration.Observe(durationSeconds)
}

// RecordUpstream records an upstream provider call.
func (m *Metrics) RecordUpstream(provider, operation string, err error, latencySeconds float64) {
	m.UpstreamLatency.WithLabelValues(provider, operation).Observe(latencySeconds)
	if err != nil {
		m.UpstreamErrors.WithLabelValues(provider, "call_failed").Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
