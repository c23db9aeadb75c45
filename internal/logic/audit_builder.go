package logic

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/models"
)

// AuditLogOption defines a function that configures an AuditLog object.
type AuditLogOption func(*models.AuditLog)

// WithReason is an option to add a reason to an audit log.
func WithReason(reason string) AuditLogOption {
	return func(log *models.AuditLog) {
		if reason != "" {
			log.Reason = reason
		}
	}
}

// NewAuditLog is the shared constructor for audit log objects.
func NewAuditLog(user *models.User, action, entityType string, entityID primitive.ObjectID, before, after interface{}, opts ...AuditLogOption) *models.AuditLog {
	log := &models.AuditLog{
		ID:         primitive.NewObjectID(),
		UserID:     user.UserId,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes: map[string]interface{}{
			"before": before,
			"after":  after,
		},
		Timestamp: time.Now(),
	}

	for _, opt := range opts {
		opt(log)
	}

	return log
}

func buildCreateClientAuditLog(operator *models.User, client *models.Client) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionCreate, models.AuditEntityClient, client.ID, nil, client)
}

func buildDeleteClientAuditLog(operator *models.User, client *models.Client) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionDelete, models.AuditEntityClient, client.ID, client, nil)
}

func buildAddDepositAuditLog(operator *models.User, client *models.Client, amount string) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionAddDeposit, models.AuditEntityClient, client.ID,
		map[string]interface{}{"deposit": client.Deposit.String()},
		map[string]interface{}{"added": amount},
	)
}

func buildPayBillAuditLog(operator *models.User, bill *models.Bill, amount, method string) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionPay, models.AuditEntityBill, bill.ID,
		map[string]interface{}{"paid_amount": bill.PaidAmount.String()},
		map[string]interface{}{"applied": amount, "method": method},
	)
}

func buildBulkPayAuditLog(operator *models.User, clientID primitive.ObjectID, amount, method string, billIDs []string) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionPay, models.AuditEntityClient, clientID,
		nil,
		map[string]interface{}{"amount": amount, "method": method, "bills": billIDs},
	)
}

func buildCreateBillAuditLog(operator *models.User, bill *models.Bill) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionCreate, models.AuditEntityBill, bill.ID, nil, bill)
}

func buildRecomputeBillAuditLog(operator *models.User, billID primitive.ObjectID, oldAmount, newAmount string, reason string) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionRecompute, models.AuditEntityBill, billID,
		map[string]interface{}{"amount": oldAmount},
		map[string]interface{}{"amount": newAmount},
		WithReason(reason),
	)
}

func buildReverseBillAuditLog(operator *models.User, bill *models.Bill, recredited string) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionReverse, models.AuditEntityBill, bill.ID,
		bill,
		map[string]interface{}{"recredited": recredited},
	)
}

func buildReconcileClientAuditLog(operator *models.User, clientID primitive.ObjectID, before, after map[string]interface{}) *models.AuditLog {
	return NewAuditLog(operator, models.AuditActionReconcile, models.AuditEntityClient, clientID, before, after)
}
