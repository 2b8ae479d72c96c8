// Package kafka forwards audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "clockgeo/pkg/platform/audit"
)

// Store publishes each event synchronously, keyed by user id so one user's
// events stay ordered within a partition.
type Store struct {
	client *kgo.Client
	topic  string
}

// New connects a producer to brokers. Close releases it.
func New(brokers []string, topic string) (*Store, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka audit store requires at least one broker")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RecordDeliveryTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Store{client: client, topic: topic}, nil
}

// EnsureTopic creates the audit topic if it does not exist yet.
func (s *Store) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	for _, t := range resp {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

type payload struct {
	Category   string            `json:"category"`
	Timestamp  string            `json:"timestamp"`
	UserID     string            `json:"user_id,omitempty"`
	Subject    string            `json:"subject"`
	Action     string            `json:"action"`
	Decision   string            `json:"decision,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func encode(event audit.Event) ([]byte, error) {
	p := payload{
		Category:   string(event.Category),
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
		Subject:    event.Subject,
		Action:     event.Action,
		Decision:   event.Decision,
		Reason:     event.Reason,
		RequestID:  event.RequestID,
		Attributes: event.Attributes,
	}
	if !event.UserID.IsNil() {
		p.UserID = event.UserID.String()
	}
	return json.Marshal(p)
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	rec := &kgo.Record{
		Key:   []byte(event.UserID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.client.Close()
}
