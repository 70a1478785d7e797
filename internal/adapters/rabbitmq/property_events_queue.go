package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/rabbitmq/rabbitmq_producer"
)

// PropertyEventsQueueAdapter implements PropertyEventsPort over RabbitMQ:
// every freshly cataloged property is announced to downstream consumers
// (scoring, notifications).
type PropertyEventsQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewPropertyEventsQueueAdapter creates the adapter over an initialized
// publisher.
func NewPropertyEventsQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*PropertyEventsQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &PropertyEventsQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// PublishCreated announces one new property as a persistent JSON message.
func (a *PropertyEventsQueueAdapter) PublishCreated(ctx context.Context, p domain.Property) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal property %s: %w", p.ID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to publish created event for %s: %w", p.ID, err)
	}

	log.Printf("RabbitMQAdapter: Published created event for property %s (%s)\n", p.ID, p.Title)
	return nil
}
