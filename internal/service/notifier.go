package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BenjiKandl/apertif/pkg/kafka"
)

// NotificationType names what happened to an event
type NotificationType string

const (
	NotificationEventCreated  NotificationType = "event.created"
	NotificationRSVPSubmitted NotificationType = "rsvp.submitted"
)

// DefaultNotificationTopic is used when no topic is configured
const DefaultNotificationTopic = "apertif-rsvps"

// Notification is the payload published for event activity
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	EventID     string           `json:"eventId"`
	Title       string           `json:"title"`
	GuestCount  int              `json:"guestCount"`
	Capacity    *int             `json:"capacity,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
	ArrivalSlot string           `json:"arrivalSlot,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

// Notifier publishes event activity
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
	Close() error
}

// kafkaProducer is the subset of kafka.Producer the notifier needs
type kafkaProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
	Close()
}

// KafkaNotifier implements Notifier using Kafka
type KafkaNotifier struct {
	producer    kafkaProducer
	topic       string
	serviceName string
}

// NotifierConfig contains configuration for the Kafka notifier
type NotifierConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaNotifier creates a new Kafka notifier
func NewKafkaNotifier(ctx context.Context, cfg *NotifierConfig) (*KafkaNotifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("notifier config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "apertif-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newKafkaNotifier(producer, cfg.Topic, cfg.ServiceName), nil
}

func newKafkaNotifier(producer kafkaProducer, topic, serviceName string) *KafkaNotifier {
	if topic == "" {
		topic = DefaultNotificationTopic
	}
	if serviceName == "" {
		serviceName = "apertif"
	}
	return &KafkaNotifier{producer: producer, topic: topic, serviceName: serviceName}
}

// Notify publishes n keyed by event id so one event's activity stays ordered
func (p *KafkaNotifier) Notify(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := &kafka.Message{
		Topic: p.topic,
		Key:   []byte(n.EventID),
		Value: value,
		Headers: map[string]string{
			"event_type":   string(n.Type),
			"event_id":     n.ID,
			"source":       p.serviceName,
			"content_type": "application/json",
		},
		Timestamp: n.OccurredAt,
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", n.Type, err)
	}
	return nil
}

// Close closes the producer
func (p *KafkaNotifier) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// NoOpNotifier drops notifications
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new no-op notifier
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Notify is a no-op
func (n *NoOpNotifier) Notify(ctx context.Context, _ *Notification) error {
	return nil
}

// Close is a no-op
func (n *NoOpNotifier) Close() error {
	return nil
}
