package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Bill struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Client          primitive.ObjectID   `bson:"client" json:"client"`
	Amount          primitive.Decimal128 `bson:"amount" json:"amount"`
	PaidAmount      primitive.Decimal128 `bson:"paid_amount" json:"paid_amount"`
	IsPaid          bool                 `bson:"is_paid" json:"is_paid"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	ReferenceNumber string               `bson:"reference_number" json:"reference_number"`
	// Notes is append-only: amount recalculations append an audit note here and
	// nothing may overwrite earlier entries.
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	BillDate  time.Time `bson:"bill_date" json:"bill_date"`
	CreatedBy *User     `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Payment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Bill          primitive.ObjectID   `bson:"bill" json:"bill"`
	Client        primitive.ObjectID   `bson:"client" json:"client"`
	Amount        primitive.Decimal128 `bson:"amount" json:"amount"`
	PaymentMethod string               `bson:"payment_method" json:"payment_method"`
	Notes         string               `bson:"notes,omitempty" json:"notes,omitempty"`
	ProcessedBy   *User                `bson:"processed_by,omitempty" json:"processed_by,omitempty"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
}
