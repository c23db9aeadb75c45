package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/models"
)

// LedgerEventTopic is the broker topic ledger events are relayed to.
type LedgerEventTopic string

// LedgerEvent is the payload staged to the outbox for downstream consumers
// (reporting, notifications). Amounts are serialized as fixed-point strings.
type LedgerEvent struct {
	Action   string `json:"action"`
	ClientID string `json:"client_id"`
	BillID   string `json:"bill_id,omitempty"`
	Amount   string `json:"amount"`
	Method   string `json:"method,omitempty"`
	Operator string `json:"operator,omitempty"`
}

const (
	LedgerEventBillCreated  = "bill_created"
	LedgerEventBillUpdated  = "bill_updated"
	LedgerEventBillReversed = "bill_reversed"
	LedgerEventPayment      = "payment"
	LedgerEventBulkPayment  = "bulk_payment"
	LedgerEventDeposit      = "deposit"
)

// LedgerEventPublisher stages ledger events as outbox messages inside the
// caller's transaction so they are relayed exactly when the mutation commits.
type LedgerEventPublisher struct {
	outboxRepo repository.OutboxRepository
	topic      LedgerEventTopic
}

func NewLedgerEventPublisher(outboxRepo repository.OutboxRepository, topic LedgerEventTopic) *LedgerEventPublisher {
	return &LedgerEventPublisher{
		outboxRepo: outboxRepo,
		topic:      topic,
	}
}

// Publish stages one event. A failure here must abort the surrounding
// transaction, so the error is returned rather than just logged.
func (p *LedgerEventPublisher) Publish(ctx context.Context, event *LedgerEvent) error {
	payloadBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event payload: %w", err)
	}

	outboxMsg := &models.OutboxMessage{
		ID:        primitive.NewObjectID(),
		Topic:     string(p.topic),
		Payload:   string(payloadBytes),
		Status:    models.OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	if err := p.outboxRepo.Create(ctx, outboxMsg); err != nil {
		return fmt.Errorf("failed to create ledger event outbox message: %w", err)
	}
	return nil
}
