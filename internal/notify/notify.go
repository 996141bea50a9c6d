package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const Exchange = "resume_updates"

// StatusEvent reports one step of a resume upload.
type StatusEvent struct {
	UserID      uuid.UUID  `json:"userId"`
	ResumeID    *uuid.UUID `json:"resumeId,omitempty"`
	CandidateID *uuid.UUID `json:"candidateId,omitempty"`
	State       string     `json:"status"`
	Message     string     `json:"message"`
	At          time.Time  `json:"at"`
}

// RoutingKey is resume.<resumeId>, or resume.user.<userId> before the resume row exists.
func (e StatusEvent) RoutingKey() string {
	if e.ResumeID != nil {
		return fmt.Sprintf("resume.%s", e.ResumeID)
	}
	return fmt.Sprintf("resume.user.%s", e.UserID)
}

type Notifier interface {
	Publish(ctx context.Context, event StatusEvent) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, StatusEvent) error { return nil }
func (Nop) Close() error                               { return nil }

// channel is the part of *amqp.Channel the notifier uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes status events as JSON to a topic exchange.
type AMQPNotifier struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   channel
}

func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}
	return &AMQPNotifier{conn: conn, ch: ch}, nil
}

func (n *AMQPNotifier) Publish(_ context.Context, event StatusEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ch.Publish(Exchange, event.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.At,
		Body:         body,
	})
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.ch.Close(); err != nil {
		log.Printf("[Notify] closing channel: %v", err)
	}
	if n.conn == nil {
		return nil
	}
	return n.conn.Close()
}

// New returns an AMQP notifier for url, or Nop when url is empty.
func New(url string) (Notifier, error) {
	if url == "" {
		return Nop{}, nil
	}
	n, err := NewAMQPNotifier(url)
	if err != nil {
		return nil, err
	}
	return n, nil
}
