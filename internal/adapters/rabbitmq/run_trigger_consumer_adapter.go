package rabbitmq

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/rabbitmq/rabbitmq_consumer"
)

// RunExecutor is the one capability the trigger adapter needs from the core:
// run a full ingestion pass and report how it went.
type RunExecutor interface {
	Execute(ctx context.Context) (domain.RunSummary, error)
}

// RunTriggerConsumerAdapter is the inbound adapter for on-demand runs: any
// message on the trigger queue starts one ingestion run. The message body
// is irrelevant, arrival is the signal.
type RunTriggerConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  RunExecutor
}

// NewRunTriggerConsumerAdapter creates the adapter and its consumer.
func NewRunTriggerConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase RunExecutor,
) (*RunTriggerConsumerAdapter, error) {
	adapter := &RunTriggerConsumerAdapter{
		useCase: useCase,
	}

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.messageHandler)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for run triggers: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func (a *RunTriggerConsumerAdapter) messageHandler(d amqp.Delivery) (ack bool, requeueOnError bool, err error) {
	log.Printf("RunTriggerConsumerAdapter: Received run trigger (Tag: %d)\n", d.DeliveryTag)

	summary, err := a.useCase.Execute(context.Background())
	if err != nil {
		if d.Redelivered {
			log.Printf("RunTriggerConsumerAdapter: Run failed again on redelivery (Tag: %d). Discarding trigger.", d.DeliveryTag)
			return false, false, err
		}
		log.Printf("RunTriggerConsumerAdapter: Run failed: %v. Requeueing trigger.", err)
		return false, true, err
	}

	log.Printf("RunTriggerConsumerAdapter: Triggered run done: %s\n", summary.Message)
	return true, false, nil
}

// Start implements EventListenerPort.
func (a *RunTriggerConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close implements EventListenerPort.
func (a *RunTriggerConsumerAdapter) Close() error {
	return a.consumer.Close()
}
