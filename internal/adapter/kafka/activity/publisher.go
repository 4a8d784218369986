// Package activity publishes document activity events to Kafka.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/heartmarshall/dossier-issuance/internal/config"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

// client is the subset of *kgo.Client used by the publisher.
type client interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
	Flush(ctx context.Context) error
	Close()
}

// message is the wire form of one event.
type message struct {
	ID          string `json:"id"`
	Action      string `json:"action"`
	Kind        string `json:"kind"`
	DocumentID  string `json:"document_id"`
	PropertyID  string `json:"property_id"`
	ApplicantID string `json:"applicant_id,omitempty"`
	DistrictID  string `json:"district_id"`
	ActorID     string `json:"actor_id"`
	RequestID   string `json:"request_id,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}

// Publisher writes events to one topic, keyed by document id so every event
// of a document lands on the same partition in order.
type Publisher struct {
	client client
	topic  string
	log    *slog.Logger
	mu     sync.RWMutex
	closed bool
}

// New connects a publisher with the given configuration.
func New(cfg config.KafkaConfig, logger *slog.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	brokers := strings.Split(cfg.Brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	var acks kgo.Acks
	switch cfg.Acks {
	case "0":
		acks = kgo.NoAck()
	case "1":
		acks = kgo.LeaderAck()
	default:
		acks = kgo.AllISRAcks()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(acks),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	if acks != kgo.AllISRAcks() {
		// Idempotent production requires acks=all.
		opts = append(opts, kgo.DisableIdempotentWrite())
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return newPublisher(cl, cfg.Topic, logger), nil
}

func newPublisher(cl client, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{client: cl, topic: topic, log: logger.With("adapter", "kafka_activity")}
}

// Record publishes ev and waits for the broker acknowledgement.
func (p *Publisher) Record(ctx context.Context, ev domain.ActivityEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("activity publisher is closed")
	}

	value, err := json.Marshal(toMessage(ev))
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.DocumentID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(ev.Action)},
			{Key: "kind", Value: []byte(ev.Kind)},
		},
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce activity event %s: %w", ev.ID, err)
	}
	return nil
}

// Ping checks connectivity to the brokers.
func (p *Publisher) Ping(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("activity publisher is closed")
	}
	return p.client.Ping(ctx)
}

// Close flushes buffered records and shuts the client down.
func (p *Publisher) Close(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	if err := p.client.Flush(ctx); err != nil {
		p.log.Warn("kafka producer closed with unflushed records", slog.String("error", err.Error()))
	}
	p.client.Close()
}

func toMessage(ev domain.ActivityEvent) message {
	m := message{
		ID:         ev.ID.String(),
		Action:     string(ev.Action),
		Kind:       string(ev.Kind),
		DocumentID: ev.DocumentID.String(),
		PropertyID: ev.Scope.PropertyID.String(),
		DistrictID: ev.Scope.DistrictID.String(),
		ActorID:    ev.ActorID.String(),
		RequestID:  ev.RequestID,
		OccurredAt: ev.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if ev.Scope.ApplicantID != nil {
		m.ApplicantID = ev.Scope.ApplicantID.String()
	}
	return m
}
