package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	queueSessionRequested     = "session.requested"
	queueSessionStatusChanged = "session.status_changed"
)

// Publisher emits session lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	SessionRequested(ctx context.Context, evt SessionRequestedEvent) error
	SessionStatusChanged(ctx context.Context, evt SessionStatusChangedEvent) error
	Close() error
}

// amqpPublisher publishes events to durable RabbitMQ queues.
type amqpPublisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the lifecycle queues.
// Callers should treat a dial failure as non-fatal: the booking flow works
// without event publishing.
func NewAMQPPublisher(url string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	for _, q := range []string{queueSessionRequested, queueSessionStatusChanged} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	return &amqpPublisher{conn: conn, ch: ch}, nil
}

func (p *amqpPublisher) SessionRequested(ctx context.Context, evt SessionRequestedEvent) error {
	return p.publish(ctx, queueSessionRequested, evt)
}

func (p *amqpPublisher) SessionStatusChanged(ctx context.Context, evt SessionStatusChangedEvent) error {
	return p.publish(ctx, queueSessionStatusChanged, evt)
}

func (p *amqpPublisher) publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		log.Printf("events: close channel: %v", err)
	}
	return p.conn.Close()
}
