package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a laundry-shop customer with a financial ledger.
//
// Amount, Deposit and Balance are cached running totals maintained
// transactionally alongside the transaction log. The log is the source of
// truth; these fields exist for cheap reads and are reconciled after every
// transaction mutation. The invariant Balance == Amount - Deposit must hold
// after every mutation.
type Client struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Phone     string               `bson:"phone" json:"phone"`
	Address   string               `bson:"address,omitempty" json:"address,omitempty"`
	Amount    primitive.Decimal128 `bson:"amount" json:"amount"`
	Deposit   primitive.Decimal128 `bson:"deposit" json:"deposit"`
	Balance   primitive.Decimal128 `bson:"balance" json:"balance"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
	CreatedBy *User                `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
