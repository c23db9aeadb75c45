package dto

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/models"
)

func NewPayBillRequest(billID primitive.ObjectID, amount decimal.Decimal, method constants.PaymentMethod, notes string, operator *models.User) *PayBillRequest {
	return &PayBillRequest{
		billID:   billID,
		amount:   amount,
		method:   method,
		notes:    notes,
		operator: operator,
	}
}

type PayBillRequest struct {
	billID   primitive.ObjectID
	amount   decimal.Decimal
	method   constants.PaymentMethod
	notes    string
	operator *models.User
}

func (r *PayBillRequest) GetBillID() primitive.ObjectID {
	return r.billID
}

func (r *PayBillRequest) GetAmount() decimal.Decimal {
	return r.amount
}

func (r *PayBillRequest) GetMethod() constants.PaymentMethod {
	return r.method
}

func (r *PayBillRequest) GetNotes() string {
	return r.notes
}

func (r *PayBillRequest) GetOperator() *models.User {
	return r.operator
}

// --- PayAllBills DTOs ---

func NewPayAllBillsRequest(clientID primitive.ObjectID, amount decimal.Decimal, method constants.PaymentMethod, notes string, operator *models.User) *PayAllBillsRequest {
	return &PayAllBillsRequest{
		clientID: clientID,
		amount:   amount,
		method:   method,
		notes:    notes,
		operator: operator,
	}
}

type PayAllBillsRequest struct {
	clientID primitive.ObjectID
	amount   decimal.Decimal
	method   constants.PaymentMethod
	notes    string
	operator *models.User
}

func (r *PayAllBillsRequest) GetClientID() primitive.ObjectID {
	return r.clientID
}

func (r *PayAllBillsRequest) GetAmount() decimal.Decimal {
	return r.amount
}

func (r *PayAllBillsRequest) GetMethod() constants.PaymentMethod {
	return r.method
}

func (r *PayAllBillsRequest) GetNotes() string {
	return r.notes
}

func (r *PayAllBillsRequest) GetOperator() *models.User {
	return r.operator
}

// BulkPaymentResult reports how a bulk payment was distributed. Remaining is
// the part of the requested amount that exceeded the total due; it is
// reported back to the caller, never silently absorbed.
type BulkPaymentResult struct {
	TransactionID primitive.ObjectID `json:"transaction_id"`
	PaidBills     []PaidBillShare    `json:"paid_bills"`
	Remaining     decimal.Decimal    `json:"remaining"`
}

// PaidBillShare is one bill's slice of a bulk payment.
type PaidBillShare struct {
	BillID primitive.ObjectID `json:"bill_id"`
	Amount decimal.Decimal    `json:"amount"`
}
