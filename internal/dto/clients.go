package dto

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/models"
)

func NewCreateClientRequest(name, phone, address string, operator *models.User) *CreateClientRequest {
	return &CreateClientRequest{
		name:     name,
		phone:    phone,
		address:  address,
		operator: operator,
	}
}

type CreateClientRequest struct {
	name     string
	phone    string
	address  string
	operator *models.User
}

func (r *CreateClientRequest) GetName() string {
	return r.name
}

func (r *CreateClientRequest) GetPhone() string {
	return r.phone
}

func (r *CreateClientRequest) GetAddress() string {
	return r.address
}

func (r *CreateClientRequest) GetOperator() *models.User {
	return r.operator
}

// --- AddDeposit DTOs ---

func NewAddDepositRequest(clientID primitive.ObjectID, amount decimal.Decimal, notes string, operator *models.User) *AddDepositRequest {
	return &AddDepositRequest{
		clientID: clientID,
		amount:   amount,
		notes:    notes,
		operator: operator,
	}
}

type AddDepositRequest struct {
	clientID primitive.ObjectID
	amount   decimal.Decimal
	notes    string
	operator *models.User
}

func (r *AddDepositRequest) GetClientID() primitive.ObjectID {
	return r.clientID
}

func (r *AddDepositRequest) GetAmount() decimal.Decimal {
	return r.amount
}

func (r *AddDepositRequest) GetNotes() string {
	return r.notes
}

func (r *AddDepositRequest) GetOperator() *models.User {
	return r.operator
}

// --- Read models ---

// ClientStatement is the reporting view of one client's ledger position.
// UnpaidDue and CreditAvailable are derived from source data, not from the
// cached client fields.
type ClientStatement struct {
	Client          *models.Client        `json:"client"`
	UnpaidDue       string                `json:"unpaid_due"`
	CreditAvailable string                `json:"credit_available"`
	Bills           []*models.Bill        `json:"bills"`
	Transactions    []*models.Transaction `json:"transactions"`
}

// RevenueTotals aggregates billed/paid/pending figures over a date range.
type RevenueTotals struct {
	Billed  primitive.Decimal128 `json:"billed"`
	Paid    primitive.Decimal128 `json:"paid"`
	Pending primitive.Decimal128 `json:"pending"`
	Bills   int64                `json:"bills"`
}
