// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"ai-interview-orchestrator/internal/observability/metrics"
)

// Publisher publishes interview events to separate Kafka topics: one for
// completed interviewer turns, one for final reports.
type Publisher struct {
	writerTurns   *kafka.Writer
	writerReports *kafka.Writer
	principal     string
	topicTurns    string
	topicReports  string
	enabled       bool
	metrics       *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers      []string
	TopicTurns   string
	TopicReports string
	Principal    string
	Enabled      bool
}

// New creates a new Kafka event publisher with separate topics for turn and
// report events.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:    cfg.Principal,
			topicTurns:   cfg.TopicTurns,
			topicReports: cfg.TopicReports,
			enabled:      false,
			metrics:      m,
		}
	}

	// Custom dialer with longer timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerTurns := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicTurns,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerReports := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicReports,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicTurns", cfg.TopicTurns).
		Str("topicReports", cfg.TopicReports).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerTurns:   writerTurns,
		writerReports: writerReports,
		principal:     cfg.Principal,
		topicTurns:    cfg.TopicTurns,
		topicReports:  cfg.TopicReports,
		enabled:       true,
		metrics:       m,
	}
}

// PublishTurn publishes a completed interviewer turn event, keyed by
// session id so one session's turns stay in partition order.
func (p *Publisher) PublishTurn(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerTurns, p.topicTurns, "turn", key, event)
}

// PublishReport publishes a final report event.
func (p *Publisher) PublishReport(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerReports, p.topicReports, "report", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerTurns != nil {
		if e := p.writerTurns.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing turns writer")
			err = e
		}
	}
	if p.writerReports != nil {
		if e := p.writerReports.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing reports writer")
			err = e
		}
	}
	return err
}
