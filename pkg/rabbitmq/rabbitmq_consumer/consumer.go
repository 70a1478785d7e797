package rabbitmq_consumer

import (
	"context"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bbbmagic-coder/rabat-property-tracker/pkg/rabbitmq/rabbitmq_common"
)

// MessageHandler processes one delivery. It reports whether to ack and, on
// error, whether the message should be requeued.
type MessageHandler func(delivery amqp.Delivery) (ack bool, requeueOnError bool, err error)

// ConsumerConfig configures one consuming channel, its queue and binding.
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName       string
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	// Binding; empty ExchangeNameForBind skips binding entirely.
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	RoutingKeyForBind      string
	BindingArgs            amqp.Table

	PrefetchCount int
	PrefetchSize  int
	QosGlobal     bool

	ConsumerTag       string
	ExclusiveConsumer bool
}

// Consumer owns one connection and channel and dispatches deliveries to the
// handler, one goroutine per message.
type Consumer struct {
	config          ConsumerConfig
	handler         MessageHandler
	connection      *amqp.Connection
	channel         *amqp.Channel
	actualQueueName string

	wg sync.WaitGroup
}

// NewConsumer connects and sets up the queue/exchange topology; consumption
// starts only with StartConsuming.
func NewConsumer(cfg ConsumerConfig, handler MessageHandler) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return nil, fmt.Errorf("consumer: queue name is required if DeclareQueue is false")
	}
	if cfg.ExchangeNameForBind != "" && cfg.ExchangeTypeForBind == "" && cfg.DeclareExchangeForBind {
		return nil, fmt.Errorf("consumer: exchange type is required if declaring an exchange for binding")
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}

	c := &Consumer{
		config:  cfg,
		handler: handler,
	}

	if err := c.connectAndSetup(); err != nil {
		return nil, fmt.Errorf("consumer: initial connection and setup failed: %w", err)
	}

	return c, nil
}

func (c *Consumer) connectAndSetup() error {
	log.Printf("Consumer: Attempting to connect to RabbitMQ\n")
	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	c.connection = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	c.channel = ch

	// QoS must be set before Consume.
	if c.config.PrefetchCount > 0 || c.config.PrefetchSize > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, c.config.PrefetchSize, c.config.QosGlobal); err != nil {
			_ = c.channel.Close()
			_ = c.connection.Close()
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	c.actualQueueName = c.config.QueueName
	if c.config.DeclareQueue {
		q, declareErr := c.channel.QueueDeclare(
			c.config.QueueName,
			c.config.DurableQueue,
			c.config.AutoDeleteQueue,
			c.config.ExclusiveQueue,
			false, // no-wait
			c.config.QueueArgs,
		)
		if declareErr != nil {
			_ = c.channel.Close()
			_ = c.connection.Close()
			return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, declareErr)
		}
		// The server may have generated the name.
		c.actualQueueName = q.Name
	}

	if c.config.DeclareExchangeForBind {
		err = c.channel.ExchangeDeclare(
			c.config.ExchangeNameForBind,
			c.config.ExchangeTypeForBind,
			c.config.DurableExchangeForBind,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = c.channel.Close()
			_ = c.connection.Close()
			return fmt.Errorf("failed to declare exchange '%s' for binding: %w", c.config.ExchangeNameForBind, err)
		}
	}

	if c.config.ExchangeNameForBind != "" {
		err = c.channel.QueueBind(
			c.actualQueueName,
			c.config.RoutingKeyForBind,
			c.config.ExchangeNameForBind,
			false, // no-wait
			c.config.BindingArgs,
		)
		if err != nil {
			_ = c.channel.Close()
			_ = c.connection.Close()
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, c.config.ExchangeNameForBind, err)
		}
	}

	log.Printf("Consumer: Setup complete for queue '%s'.\n", c.actualQueueName)
	return nil
}

// StartConsuming blocks until the context is cancelled or the connection is
// lost. A cancelled context is a graceful shutdown, not an error.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.actualQueueName,
		c.config.ConsumerTag,
		false, // auto-ack
		c.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to register a consumer on queue '%s': %w", c.actualQueueName, err)
	}

	log.Printf("Consumer: [*] Waiting for messages on queue '%s'.\n", c.actualQueueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Printf("Consumer: Context cancelled for tag '%s'. Exiting consumption loop.", c.config.ConsumerTag)
				return

			case d, ok := <-msgs:
				if !ok {
					log.Printf("Consumer: Deliveries channel closed by RabbitMQ for tag '%s'. Exiting loop.", c.config.ConsumerTag)
					return
				}

				c.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer c.wg.Done()

					ack, requeueOnError, processErr := c.handler(delivery)
					if processErr != nil {
						log.Printf("Consumer: Error processing message (Tag: %d): %v. Requeue: %v\n", delivery.DeliveryTag, processErr, requeueOnError)
						if err := delivery.Nack(false, requeueOnError); err != nil {
							log.Printf("Consumer: Error sending Nack (Tag: %d): %v\n", delivery.DeliveryTag, err)
						}
						return
					}
					if ack {
						if err := delivery.Ack(false); err != nil {
							log.Printf("Consumer: Error sending Ack (Tag: %d): %v\n", delivery.DeliveryTag, err)
						}
						return
					}
					if err := delivery.Nack(false, false); err != nil {
						log.Printf("Consumer: Error sending Nack (no requeue) (Tag: %d): %v\n", delivery.DeliveryTag, err)
					}
				}(d)
			}
		}
	}()

	notifyClose := make(chan *amqp.Error)
	c.connection.NotifyClose(notifyClose)

	select {
	case <-ctx.Done():
		log.Printf("Consumer: Context cancelled for tag '%s'. Shutting down consumer.", c.config.ConsumerTag)
		return nil
	case err := <-notifyClose:
		log.Printf("Consumer: Connection closed for tag '%s'. Error: %v", c.config.ConsumerTag, err)
		return err
	}
}

// Close waits for in-flight handlers, then shuts the channel and connection.
func (c *Consumer) Close() error {
	log.Println("Consumer: Waiting for message handlers to finish...")
	c.wg.Wait()

	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Printf("Consumer: Error closing channel: %v\n", err)
			firstErr = err
		}
		c.channel = nil
	}
	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			log.Printf("Consumer: Error closing connection: %v\n", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		c.connection = nil
	}
	log.Println("Consumer: Closed.")
	return firstErr
}
