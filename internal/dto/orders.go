package dto

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/models"
)

func NewOrderCreatedRequest(orderID string, clientID primitive.ObjectID, finalAmount decimal.Decimal, description string, attachBillID *primitive.ObjectID, operator *models.User) *OrderCreatedRequest {
	return &OrderCreatedRequest{
		orderID:      orderID,
		clientID:     clientID,
		finalAmount:  finalAmount,
		description:  description,
		attachBillID: attachBillID,
		operator:     operator,
	}
}

// OrderCreatedRequest carries a finalized order from the external order
// subsystem into the bill lifecycle. attachBillID is nil for the default
// one-bill-per-order policy.
type OrderCreatedRequest struct {
	orderID      string
	clientID     primitive.ObjectID
	finalAmount  decimal.Decimal
	description  string
	attachBillID *primitive.ObjectID
	operator     *models.User
}

func (r *OrderCreatedRequest) GetOrderID() string {
	return r.orderID
}

func (r *OrderCreatedRequest) GetClientID() primitive.ObjectID {
	return r.clientID
}

func (r *OrderCreatedRequest) GetFinalAmount() decimal.Decimal {
	return r.finalAmount
}

func (r *OrderCreatedRequest) GetDescription() string {
	return r.description
}

func (r *OrderCreatedRequest) GetAttachBillID() *primitive.ObjectID {
	return r.attachBillID
}

func (r *OrderCreatedRequest) GetOperator() *models.User {
	return r.operator
}

// --- Items changed DTOs ---

// OrderItemInput is one priced line of an edited order. VariantPrice, when
// positive, replaces UnitPrice for the chosen service variant.
type OrderItemInput struct {
	Name         string
	Quantity     int64
	UnitPrice    decimal.Decimal
	VariantPrice decimal.Decimal
}

func NewOrderItemsChangedRequest(orderID string, items []OrderItemInput, urgentMultiplier decimal.Decimal, operator *models.User) *OrderItemsChangedRequest {
	return &OrderItemsChangedRequest{
		orderID:          orderID,
		items:            items,
		urgentMultiplier: urgentMultiplier,
		operator:         operator,
	}
}

type OrderItemsChangedRequest struct {
	orderID          string
	items            []OrderItemInput
	urgentMultiplier decimal.Decimal
	operator         *models.User
}

func (r *OrderItemsChangedRequest) GetOrderID() string {
	return r.orderID
}

func (r *OrderItemsChangedRequest) GetItems() []OrderItemInput {
	return r.items
}

func (r *OrderItemsChangedRequest) GetUrgentMultiplier() decimal.Decimal {
	return r.urgentMultiplier
}

func (r *OrderItemsChangedRequest) GetOperator() *models.User {
	return r.operator
}

// --- Order deleted DTOs ---

func NewOrderDeletedRequest(orderID string, operator *models.User) *OrderDeletedRequest {
	return &OrderDeletedRequest{orderID: orderID, operator: operator}
}

type OrderDeletedRequest struct {
	orderID  string
	operator *models.User
}

func (r *OrderDeletedRequest) GetOrderID() string {
	return r.orderID
}

func (r *OrderDeletedRequest) GetOperator() *models.User {
	return r.operator
}
