package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/dto"
	"washline_ledger/internal/models"
)

type ClientsRepository interface {
	CreateClient(ctx context.Context, client *models.Client) (primitive.ObjectID, error)
	GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error)
	GetClientByPhone(ctx context.Context, phone string) (*models.Client, error)
	UpdateClient(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	DeleteClient(ctx context.Context, id primitive.ObjectID) error
	ListClients(ctx context.Context, limit, offset int) ([]*models.Client, int64, error)
}

type BillsRepository interface {
	CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error)
	GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	GetBillsByClient(ctx context.Context, clientID primitive.ObjectID, limit, offset int) ([]*models.Bill, int64, error)
	// GetUnpaidBillsByClient returns unpaid bills ordered oldest-first by bill date,
	// ties broken by id. Bulk payment distribution depends on this order.
	GetUnpaidBillsByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Bill, error)
	CountUnpaidBillsByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
	UpdateBill(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	DeleteBill(ctx context.Context, id primitive.ObjectID) error
	SumBillsByDateRange(ctx context.Context, from, to time.Time) (*dto.RevenueTotals, error)
}

type PaymentsRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error)
	GetPaymentsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, error)
	DeletePaymentsByBill(ctx context.Context, billID primitive.ObjectID) (int64, error)
}

type TransactionsRepository interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) (primitive.ObjectID, error)
	// GetTransactionsByClient returns the full history in chronological order,
	// ties broken by insertion (id) order.
	GetTransactionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Transaction, error)
	GetTransactionsByClientPage(ctx context.Context, params *GetTransactionsPageParams) ([]*models.Transaction, error)
	DeleteTransactionsByBill(ctx context.Context, billID primitive.ObjectID) (int64, error)
	DeleteTransactionsByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error)
}

type OrderRefsRepository interface {
	CreateOrderRef(ctx context.Context, ref *models.OrderRef) (primitive.ObjectID, error)
	GetOrderRefByOrderID(ctx context.Context, orderID string) (*models.OrderRef, error)
	GetOrderRefsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.OrderRef, error)
	UpdateOrderRef(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	DeleteOrderRef(ctx context.Context, id primitive.ObjectID) error
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type OutboxRepository interface {
	Create(ctx context.Context, message *models.OutboxMessage) error
	ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error
	IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}
