package mq

import "context"

// Publisher is the interface for relaying messages to a broker. The outbox
// processor and tests depend on this rather than a concrete client.
type Publisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
	Close()
}
