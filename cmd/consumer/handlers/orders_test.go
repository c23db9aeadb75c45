package handlers

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"washline_ledger/internal/conf"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/models"
	"washline_ledger/internal/mq/rabbitmq"
)

func TestClassify(t *testing.T) {
	permanent := []error{
		logic.ErrInvalidAmount,
		logic.ErrBillWrongClient,
		logic.ErrBillAlreadyPaid,
		logic.ErrOrderAlreadyRecorded,
		logic.ErrPermanent,
	}
	for _, sentinel := range permanent {
		t.Run(sentinel.Error(), func(t *testing.T) {
			classified := classify(sentinel)

			var permErr *rabbitmq.PermanentError
			require.ErrorAs(t, classified, &permErr)
			assert.ErrorIs(t, classified, sentinel)
			assert.False(t, rabbitmq.Requeueable(classified))
		})
	}

	t.Run("transient errors are retried", func(t *testing.T) {
		err := errors.New("connection reset by peer")
		classified := classify(err)

		assert.Equal(t, err, classified)
		assert.True(t, rabbitmq.Requeueable(classified))
	})
}

func TestOperatorPayloadToUser(t *testing.T) {
	t.Run("valid payload maps to a user", func(t *testing.T) {
		id := primitive.NewObjectID()
		p := &operatorPayload{UserID: id.Hex(), Name: "Front Desk", Email: "desk@example.com"}

		user := p.toUser()
		assert.Equal(t, id, user.UserId)
		assert.Equal(t, "Front Desk", user.Name)
		assert.Equal(t, "desk@example.com", user.Email)
	})

	t.Run("missing operator falls back to the system user", func(t *testing.T) {
		var p *operatorPayload
		assert.Same(t, models.SystemUser, p.toUser())
	})

	t.Run("malformed user id falls back to the system user", func(t *testing.T) {
		p := &operatorPayload{UserID: "not-a-hex-id", Name: "Ghost"}
		assert.Same(t, models.SystemUser, p.toUser())
	})
}

// Deliveries rejected during parsing must be acked, never retried. The
// handlers below run with a nil BillLogic to prove the payload never
// reaches it.
func TestHandlersAckMalformedDeliveries(t *testing.T) {
	ctx := context.Background()
	cfg := &conf.RabbitMQConfig{
		OrderCreatedTopic:      "orders.created",
		OrderItemsChangedTopic: "orders.items_changed",
		OrderDeletedTopic:      "orders.deleted",
	}

	created := NewOrderCreatedHandler(nil, zap.NewNop(), cfg)
	changed := NewOrderItemsChangedHandler(nil, zap.NewNop(), cfg)
	deleted := NewOrderDeletedHandler(nil, zap.NewNop(), cfg)

	t.Run("queue names come from the config", func(t *testing.T) {
		assert.Equal(t, "orders.created", created.QueueName())
		assert.Equal(t, "orders.items_changed", changed.QueueName())
		assert.Equal(t, "orders.deleted", deleted.QueueName())
	})

	t.Run("invalid json is acked", func(t *testing.T) {
		d := amqp.Delivery{Body: []byte("{not json")}
		assert.NoError(t, created.Handle(ctx, d))
		assert.NoError(t, changed.Handle(ctx, d))
		assert.NoError(t, deleted.Handle(ctx, d))
	})

	t.Run("missing order_id is acked", func(t *testing.T) {
		d := amqp.Delivery{Body: []byte(`{"client_id":"irrelevant"}`)}
		assert.NoError(t, created.Handle(ctx, d))
		assert.NoError(t, changed.Handle(ctx, d))
		assert.NoError(t, deleted.Handle(ctx, d))
	})

	t.Run("unparseable ids and amounts are acked", func(t *testing.T) {
		badClient := amqp.Delivery{Body: []byte(`{"order_id":"o-1","client_id":"nope","final_amount":"10"}`)}
		assert.NoError(t, created.Handle(ctx, badClient))

		badAmount := amqp.Delivery{Body: []byte(`{"order_id":"o-1","client_id":"` + primitive.NewObjectID().Hex() + `","final_amount":"ten"}`)}
		assert.NoError(t, created.Handle(ctx, badAmount))

		badUnitPrice := amqp.Delivery{Body: []byte(`{"order_id":"o-1","items":[{"name":"wash","quantity":1,"unit_price":"free"}]}`)}
		assert.NoError(t, changed.Handle(ctx, badUnitPrice))
	})
}
