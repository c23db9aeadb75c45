package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction is one entry of a client's append-only ledger log.
//
// RunningBalance is a snapshot taken at write time for display only; the
// authoritative balance is always recomputed by replaying the full ordered
// history. Deleting or editing a transaction must be followed by
// re-deriving the client's cached balance fields.
type Transaction struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Client         primitive.ObjectID   `bson:"client" json:"client"`
	Type           string               `bson:"type" json:"type"`
	Amount         primitive.Decimal128 `bson:"amount" json:"amount"`
	Description    string               `bson:"description,omitempty" json:"description,omitempty"`
	Bill           *primitive.ObjectID  `bson:"bill,omitempty" json:"bill,omitempty"`
	PaymentMethod  string               `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	RunningBalance primitive.Decimal128 `bson:"running_balance" json:"running_balance"`
	Date           time.Time            `bson:"date" json:"date"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
}

// OrderRef mirrors the external order subsystem's link between an order and
// the bill it funds. The ledger core never owns order workflow state, only
// the amounts needed to recalculate an attached bill.
type OrderRef struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderID     string               `bson:"order_id" json:"order_id"`
	Client      primitive.ObjectID   `bson:"client" json:"client"`
	Bill        primitive.ObjectID   `bson:"bill" json:"bill"`
	FinalAmount primitive.Decimal128 `bson:"final_amount" json:"final_amount"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}
