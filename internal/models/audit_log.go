package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog records who changed what in the ledger. Entries are written
// alongside the business operation but a failed write never rolls it back.
type AuditLog struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty"`
	UserID     primitive.ObjectID     `bson:"user_id"`
	Action     string                 `bson:"action"`
	EntityType string                 `bson:"entity_type"`
	EntityID   primitive.ObjectID     `bson:"entity_id"`
	Changes    map[string]interface{} `bson:"changes"`
	Reason     string                 `bson:"reason,omitempty"`
	Timestamp  time.Time              `bson:"timestamp"`
}

const (
	AuditEntityClient      = "client"
	AuditEntityBill        = "bill"
	AuditEntityPayment     = "payment"
	AuditEntityTransaction = "transaction"
)

const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionDelete     = "delete"
	AuditActionPay        = "pay"
	AuditActionRecompute  = "recompute"
	AuditActionReverse    = "reverse"
	AuditActionReconcile  = "reconcile"
	AuditActionAddDeposit = "add_deposit"
)
