package events

import (
	"context"
	"fmt"
	"io"

	"tasteofegypt/pkg/kafka"
)

// KafkaWriter is what KafkaPublisher needs from *kafka.Writer.
type KafkaWriter interface {
	kafka.MessageWriter
	io.Closer
}

// KafkaPublisher writes events to a single topic, keyed by order id.
type KafkaPublisher struct {
	writer KafkaWriter
}

// NewKafkaPublisher wraps writer. Close closes writer.
func NewKafkaPublisher(writer KafkaWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := kafka.PublishJSON(ctx, p.writer, evt.OrderID, evt); err != nil {
		return fmt.Errorf("failed to publish %s for order %s: %w", evt.Type, evt.OrderID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
