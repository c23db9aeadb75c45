package handlers

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"washline_ledger/internal/conf"
	"washline_ledger/internal/dao/mongodb"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/models"
	"washline_ledger/internal/mq/rabbitmq"
)

// operatorPayload is the staff identity attached to order events. Events
// produced by automation carry no operator and fall back to the system user.
type operatorPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (p *operatorPayload) toUser() *models.User {
	if p == nil {
		return models.SystemUser
	}
	userID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return models.SystemUser
	}
	return &models.User{UserId: userID, Name: p.Name, Email: p.Email}
}

// classify decides the delivery fate for a logic error: domain rejections are
// permanent and must not loop in the queue, everything else is retried.
func classify(err error) error {
	switch {
	case errors.Is(err, logic.ErrInvalidAmount),
		errors.Is(err, logic.ErrBillWrongClient),
		errors.Is(err, logic.ErrBillAlreadyPaid),
		errors.Is(err, logic.ErrOrderAlreadyRecorded),
		errors.Is(err, logic.ErrPermanent):
		return &rabbitmq.PermanentError{Err: err}
	default:
		return err
	}
}

// OrderCreatedHandler opens (or grows) a bill when the order subsystem
// finalizes an order.
type OrderCreatedHandler struct {
	billLogic *logic.BillLogic
	logger    *zap.Logger
	cfg       *conf.RabbitMQConfig
}

// NewOrderCreatedHandler creates a new OrderCreatedHandler.
func NewOrderCreatedHandler(billLogic *logic.BillLogic, logger *zap.Logger, cfg *conf.RabbitMQConfig) *OrderCreatedHandler {
	return &OrderCreatedHandler{
		billLogic: billLogic,
		logger:    logger.Named("OrderCreatedHandler"),
		cfg:       cfg,
	}
}

// QueueName returns the name of the queue this handler subscribes to.
func (h *OrderCreatedHandler) QueueName() string {
	return h.cfg.OrderCreatedTopic
}

// Handle processes the incoming message.
func (h *OrderCreatedHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	h.logger.Info("Received order created message", zap.ByteString("body", d.Body))

	var payload struct {
		OrderID      string           `json:"order_id"`
		ClientID     string           `json:"client_id"`
		FinalAmount  string           `json:"final_amount"`
		Description  string           `json:"description"`
		AttachBillID string           `json:"attach_bill_id"`
		Operator     *operatorPayload `json:"operator"`
	}
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		h.logger.Error("Failed to unmarshal message body", zap.Error(err), zap.ByteString("body", d.Body))
		return nil // Poison pill, ACK and remove.
	}
	if payload.OrderID == "" {
		h.logger.Error("Message is missing order_id", zap.ByteString("body", d.Body))
		return nil
	}

	clientID, err := primitive.ObjectIDFromHex(payload.ClientID)
	if err != nil {
		h.logger.Error("Invalid ClientID format in message", zap.Error(err), zap.String("client_id", payload.ClientID))
		return nil
	}
	finalAmount, err := decimal.NewFromString(payload.FinalAmount)
	if err != nil {
		h.logger.Error("Invalid final_amount format in message", zap.Error(err), zap.String("final_amount", payload.FinalAmount))
		return nil
	}

	var attachBillID *primitive.ObjectID
	if payload.AttachBillID != "" {
		billID, err := primitive.ObjectIDFromHex(payload.AttachBillID)
		if err != nil {
			h.logger.Error("Invalid AttachBillID format in message", zap.Error(err), zap.String("attach_bill_id", payload.AttachBillID))
			return nil
		}
		attachBillID = &billID
	}

	req := dto.NewOrderCreatedRequest(payload.OrderID, clientID, finalAmount, payload.Description, attachBillID, payload.Operator.toUser())
	billID, err := h.billLogic.CreateFromOrder(ctx, req)
	if err != nil {
		h.logger.Error("Failed to create bill from order", zap.Error(err), zap.String("orderID", payload.OrderID))
		return classify(err)
	}

	h.logger.Info("Successfully recorded order on bill", zap.String("orderID", payload.OrderID), zap.Stringer("billID", billID))
	return nil
}

// OrderItemsChangedHandler recalculates a bill when an order's priced lines
// are edited after billing.
type OrderItemsChangedHandler struct {
	billLogic *logic.BillLogic
	logger    *zap.Logger
	cfg       *conf.RabbitMQConfig
}

// NewOrderItemsChangedHandler creates a new OrderItemsChangedHandler.
func NewOrderItemsChangedHandler(billLogic *logic.BillLogic, logger *zap.Logger, cfg *conf.RabbitMQConfig) *OrderItemsChangedHandler {
	return &OrderItemsChangedHandler{
		billLogic: billLogic,
		logger:    logger.Named("OrderItemsChangedHandler"),
		cfg:       cfg,
	}
}

// QueueName returns the name of the queue this handler subscribes to.
func (h *OrderItemsChangedHandler) QueueName() string {
	return h.cfg.OrderItemsChangedTopic
}

// Handle processes the incoming message.
func (h *OrderItemsChangedHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	h.logger.Info("Received order items changed message", zap.ByteString("body", d.Body))

	var payload struct {
		OrderID string `json:"order_id"`
		Items   []struct {
			Name         string `json:"name"`
			Quantity     int64  `json:"quantity"`
			UnitPrice    string `json:"unit_price"`
			VariantPrice string `json:"variant_price"`
		} `json:"items"`
		UrgentMultiplier string           `json:"urgent_multiplier"`
		Operator         *operatorPayload `json:"operator"`
	}
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		h.logger.Error("Failed to unmarshal message body", zap.Error(err), zap.ByteString("body", d.Body))
		return nil // Poison pill, ACK and remove.
	}
	if payload.OrderID == "" {
		h.logger.Error("Message is missing order_id", zap.ByteString("body", d.Body))
		return nil
	}

	items := make([]dto.OrderItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			h.logger.Error("Invalid unit_price format in message", zap.Error(err), zap.String("unit_price", item.UnitPrice))
			return nil
		}
		variantPrice := decimal.Zero
		if item.VariantPrice != "" {
			variantPrice, err = decimal.NewFromString(item.VariantPrice)
			if err != nil {
				h.logger.Error("Invalid variant_price format in message", zap.Error(err), zap.String("variant_price", item.VariantPrice))
				return nil
			}
		}
		items = append(items, dto.OrderItemInput{
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			VariantPrice: variantPrice,
		})
	}

	urgentMultiplier := decimal.Zero
	if payload.UrgentMultiplier != "" {
		var err error
		urgentMultiplier, err = decimal.NewFromString(payload.UrgentMultiplier)
		if err != nil {
			h.logger.Error("Invalid urgent_multiplier format in message", zap.Error(err), zap.String("urgent_multiplier", payload.UrgentMultiplier))
			return nil
		}
	}

	req := dto.NewOrderItemsChangedRequest(payload.OrderID, items, urgentMultiplier, payload.Operator.toUser())
	if err := h.billLogic.RecalculateForOrder(ctx, req); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			// The order was never billed here or was already reversed.
			h.logger.Warn("No bill found for changed order, skipping", zap.String("orderID", payload.OrderID))
			return nil
		}
		h.logger.Error("Failed to recalculate bill for order", zap.Error(err), zap.String("orderID", payload.OrderID))
		return classify(err)
	}

	h.logger.Info("Successfully recalculated bill for order", zap.String("orderID", payload.OrderID))
	return nil
}

// OrderDeletedHandler reverses a bill when its order is deleted upstream.
type OrderDeletedHandler struct {
	billLogic *logic.BillLogic
	logger    *zap.Logger
	cfg       *conf.RabbitMQConfig
}

// NewOrderDeletedHandler creates a new OrderDeletedHandler.
func NewOrderDeletedHandler(billLogic *logic.BillLogic, logger *zap.Logger, cfg *conf.RabbitMQConfig) *OrderDeletedHandler {
	return &OrderDeletedHandler{
		billLogic: billLogic,
		logger:    logger.Named("OrderDeletedHandler"),
		cfg:       cfg,
	}
}

// QueueName returns the name of the queue this handler subscribes to.
func (h *OrderDeletedHandler) QueueName() string {
	return h.cfg.OrderDeletedTopic
}

// Handle processes the incoming message.
func (h *OrderDeletedHandler) Handle(ctx context.Context, d amqp.Delivery) error {
	h.logger.Info("Received order deleted message", zap.ByteString("body", d.Body))

	var payload struct {
		OrderID  string           `json:"order_id"`
		Operator *operatorPayload `json:"operator"`
	}
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		h.logger.Error("Failed to unmarshal message body", zap.Error(err), zap.ByteString("body", d.Body))
		return nil // Poison pill, ACK and remove.
	}
	if payload.OrderID == "" {
		h.logger.Error("Message is missing order_id", zap.ByteString("body", d.Body))
		return nil
	}

	req := dto.NewOrderDeletedRequest(payload.OrderID, payload.Operator.toUser())
	if err := h.billLogic.ReverseForOrder(ctx, req); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			// Reversal is idempotent: an unknown order was either never billed
			// or already reversed.
			h.logger.Warn("No bill found for deleted order, skipping", zap.String("orderID", payload.OrderID))
			return nil
		}
		h.logger.Error("Failed to reverse bill for deleted order", zap.Error(err), zap.String("orderID", payload.OrderID))
		return classify(err)
	}

	h.logger.Info("Successfully reversed bill for deleted order", zap.String("orderID", payload.OrderID))
	return nil
}
