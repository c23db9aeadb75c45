package noop

import (
	"context"

	"washline_ledger/internal/mq"
)

// Publisher discards every message. Used in dev and test setups that run
// without a broker.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, topic string, body []byte) error {
	return nil
}

func (p *Publisher) Close() {}

var _ mq.Publisher = (*Publisher)(nil)
