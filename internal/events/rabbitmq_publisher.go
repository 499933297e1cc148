package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// AMQPPublisher is the subset of the rabbitmq client used here.
type AMQPPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// RabbitMQPublisher publishes events to a topic exchange keyed by event type.
type RabbitMQPublisher struct {
	client AMQPPublisher
}

// NewRabbitMQPublisher wraps client. Close closes client.
func NewRabbitMQPublisher(client AMQPPublisher) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", evt.ID, err)
	}
	if err := p.client.Publish(ctx, string(evt.Type), body); err != nil {
		return fmt.Errorf("failed to publish %s for order %s: %w", evt.Type, evt.OrderID, err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	return p.client.Close()
}
