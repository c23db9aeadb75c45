package handlers

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler consumes one queue. The consumer app collects all handlers
// as a wire set and registers each one under its QueueName.
type MessageHandler interface {
	QueueName() string
	Handle(ctx context.Context, d amqp.Delivery) error
}
