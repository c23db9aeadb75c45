package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"washline_ledger/internal/conf"
)

// HandlerFunc processes one delivery. A nil return acks the message; an
// error nacks it. Whether a nack requeues is decided by the caller through
// the Requeueable check below.
type HandlerFunc func(ctx context.Context, delivery amqp.Delivery) error

// PermanentError wraps an error that must not be retried; the delivery is
// nacked without requeue so a poison message cannot loop forever.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Consumer drains one or more durable queues, dispatching each delivery to
// its registered handler.
type Consumer struct {
	conn     *amqp.Connection
	logger   *zap.Logger
	handlers map[string]HandlerFunc
	done     chan error
}

func NewConsumer(cfg *conf.RabbitMQConfig, logger *zap.Logger) (*Consumer, error) {
	namedLogger := logger.Named("RabbitMQConsumer")
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)

	conn, err := amqp.Dial(dsn)
	if err != nil {
		namedLogger.Error("Failed to connect to RabbitMQ", zap.Error(err))
		return nil, err
	}

	namedLogger.Info("Successfully connected to RabbitMQ")

	return &Consumer{
		conn:     conn,
		logger:   namedLogger,
		handlers: make(map[string]HandlerFunc),
		done:     make(chan error),
	}, nil
}

// RegisterHandler registers a handler function for a specific queue.
func (c *Consumer) RegisterHandler(queueName string, handler HandlerFunc) {
	c.handlers[queueName] = handler
}

// Start begins consuming from all registered queues, one goroutine per
// queue, and blocks until a consumer stops.
func (c *Consumer) Start(ctx context.Context) error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered, consumer will not start")
	}

	for queueName, handler := range c.handlers {
		go c.consumeQueue(ctx, queueName, handler)
	}

	return <-c.done
}

func (c *Consumer) consumeQueue(ctx context.Context, queueName string, handler HandlerFunc) {
	ch, err := c.conn.Channel()
	if err != nil {
		c.logger.Error("Failed to open a channel", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		c.logger.Error("Failed to declare a queue", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}

	// Ledger mutations must be applied one at a time per queue.
	if err := ch.Qos(1, 0, false); err != nil {
		c.logger.Error("Failed to set QoS", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		c.logger.Error("Failed to register a consumer", zap.Error(err), zap.String("queue", queueName))
		c.done <- err
		return
	}

	c.logger.Info("Started consuming from queue", zap.String("queue", q.Name))

	for {
		select {
		case d := <-msgs:
			c.handleDelivery(ctx, q.Name, d, handler)
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping consumer", zap.String("queue", q.Name))
			c.done <- nil
			return
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, queue string, d amqp.Delivery, handler HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered in message handler",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
				zap.String("queue", queue),
			)
			if d.Acknowledger != nil {
				d.Nack(false, false) // no requeue, avoid panic loops
			}
		}
	}()

	c.logger.Debug("Received a message", zap.String("queue", queue), zap.ByteString("body", d.Body))
	err := handler(ctx, d)
	if err == nil {
		if d.Acknowledger != nil {
			d.Ack(false)
		}
		return
	}

	c.logger.Error("Handler failed to process message", zap.Error(err), zap.String("queue", queue))
	if d.Acknowledger != nil {
		d.Nack(false, Requeueable(err))
	}
}

// Requeueable reports whether a handler error is worth retrying.
func Requeueable(err error) bool {
	var permanent *PermanentError
	return !errors.As(err, &permanent)
}

// Close gracefully closes the connection.
func (c *Consumer) Close() {
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("Failed to close connection", zap.Error(err))
		}
	}
}
