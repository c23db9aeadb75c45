package logic

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/db"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
)

var testOperator = &models.User{
	UserId: primitive.NewObjectID(),
	Name:   "test-operator",
	Email:  "operator@example.com",
}

func newTestPaymentLogic(
	clientsRepo *mockClientsRepository,
	billsRepo *mockBillsRepository,
	paymentsRepo *mockPaymentsRepository,
	transactionsRepo *mockTransactionsRepository,
	auditLogRepo *mockAuditLogRepository,
	outboxRepo *mockOutboxRepository,
) *PaymentLogic {
	return &PaymentLogic{
		tm:               db.NewNoOpTransactionManager(),
		clientsRepo:      clientsRepo,
		billsRepo:        billsRepo,
		paymentsRepo:     paymentsRepo,
		transactionsRepo: transactionsRepo,
		auditLogRepo:     auditLogRepo,
		eventPublisher:   NewLedgerEventPublisher(outboxRepo, "ledger.events"),
		logger:           zap.NewNop(),
	}
}

func clientTx(clientID primitive.ObjectID, txType constants.TransactionType, amount string) *models.Transaction {
	return &models.Transaction{
		ID:     primitive.NewObjectID(),
		Client: clientID,
		Type:   txType.String(),
		Amount: money.MustDecimal128(decimal.RequireFromString(amount)),
		Date:   time.Now(),
	}
}

func unpaidBill(clientID primitive.ObjectID, amount, paid string) *models.Bill {
	return &models.Bill{
		ID:         primitive.NewObjectID(),
		Client:     clientID,
		Amount:     money.MustDecimal128(decimal.RequireFromString(amount)),
		PaidAmount: money.MustDecimal128(decimal.RequireFromString(paid)),
		BillDate:   time.Now(),
	}
}

func TestPayBill(t *testing.T) {
	ctx := context.Background()
	clientID := primitive.NewObjectID()

	t.Run("cash payment succeeds", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		paymentsRepo := newMockPaymentsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		bill := unpaidBill(clientID, "50.00", "0")
		billsRepo.On("GetBillByID", mock.Anything, bill.ID).Return(bill, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, clientID).
			Return([]*models.Transaction{clientTx(clientID, constants.TransactionTypeBill, "50.00")}, nil).Once()
		transactionsRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(entry *models.Transaction) bool {
			amount, err := money.FromDecimal128(entry.Amount)
			require.NoError(t, err)
			return entry.Type == constants.TransactionTypePayment.String() &&
				entry.Client == clientID &&
				entry.Bill != nil && *entry.Bill == bill.ID &&
				amount.Equal(decimal.RequireFromString("50"))
		})).Return(primitive.NewObjectID(), nil).Once()
		billsRepo.On("UpdateBill", mock.Anything, bill.ID, mock.Anything).Return(nil).Once()
		paymentsRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.Bill == bill.ID && p.PaymentMethod == "cash" && p.ProcessedBy == testOperator
		})).Return(primitive.NewObjectID(), nil).Once()
		clientsRepo.On("UpdateClient", mock.Anything, clientID, mock.Anything).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(msg *models.OutboxMessage) bool {
			return msg.Topic == "ledger.events" && msg.Status == models.OutboxStatusPending
		})).Return(nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, paymentsRepo, transactionsRepo, auditLogRepo, outboxRepo)
		payment, err := l.PayBill(ctx, dto.NewPayBillRequest(
			bill.ID, decimal.RequireFromString("50.00"), constants.PaymentMethodCash, "full settlement", testOperator))

		require.NoError(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, clientID, payment.Client)
		assert.Equal(t, "full settlement", payment.Notes)

		clientsRepo.AssertExpectations(t)
		billsRepo.AssertExpectations(t)
		paymentsRepo.AssertExpectations(t)
		transactionsRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("deposit payment draws down credit", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		paymentsRepo := newMockPaymentsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		bill := unpaidBill(clientID, "50.00", "0")
		billsRepo.On("GetBillByID", mock.Anything, bill.ID).Return(bill, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, clientID).
			Return([]*models.Transaction{
				clientTx(clientID, constants.TransactionTypeDeposit, "100.00"),
				clientTx(clientID, constants.TransactionTypeBill, "50.00"),
			}, nil).Once()
		transactionsRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(entry *models.Transaction) bool {
			balance, err := money.FromDecimal128(entry.RunningBalance)
			require.NoError(t, err)
			// Credit drops from 100 to 50, so the balance lands at 50-50=0.
			return entry.Type == constants.TransactionTypeDepositUsed.String() && balance.IsZero()
		})).Return(primitive.NewObjectID(), nil).Once()
		billsRepo.On("UpdateBill", mock.Anything, bill.ID, mock.Anything).Return(nil).Once()
		paymentsRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.PaymentMethod == "deposit"
		})).Return(primitive.NewObjectID(), nil).Once()
		clientsRepo.On("UpdateClient", mock.Anything, clientID, mock.Anything).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, paymentsRepo, transactionsRepo, auditLogRepo, outboxRepo)
		_, err := l.PayBill(ctx, dto.NewPayBillRequest(
			bill.ID, decimal.RequireFromString("50.00"), constants.PaymentMethodDeposit, "", testOperator))

		require.NoError(t, err)
		transactionsRepo.AssertExpectations(t)
		clientsRepo.AssertExpectations(t)
	})

	t.Run("deposit payment refused when credit cannot cover it", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		paymentsRepo := newMockPaymentsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		bill := unpaidBill(clientID, "50.00", "0")
		billsRepo.On("GetBillByID", mock.Anything, bill.ID).Return(bill, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, clientID).
			Return([]*models.Transaction{
				clientTx(clientID, constants.TransactionTypeDeposit, "20.00"),
				clientTx(clientID, constants.TransactionTypeBill, "50.00"),
			}, nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, paymentsRepo, transactionsRepo, auditLogRepo, outboxRepo)
		_, err := l.PayBill(ctx, dto.NewPayBillRequest(
			bill.ID, decimal.RequireFromString("50.00"), constants.PaymentMethodDeposit, "", testOperator))

		require.ErrorIs(t, err, ErrInsufficientCredit)
		transactionsRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
		billsRepo.AssertNotCalled(t, "UpdateBill", mock.Anything, mock.Anything, mock.Anything)
		paymentsRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount is rejected before any repository call", func(t *testing.T) {
		l := newTestPaymentLogic(newMockClientsRepository(), newMockBillsRepository(), newMockPaymentsRepository(),
			newMockTransactionsRepository(), newMockAuditLogRepository(), newMockOutboxRepository())

		_, err := l.PayBill(ctx, dto.NewPayBillRequest(
			primitive.NewObjectID(), decimal.Zero, constants.PaymentMethodCash, "", testOperator))
		require.ErrorIs(t, err, ErrInvalidAmount)

		_, err = l.PayBill(ctx, dto.NewPayBillRequest(
			primitive.NewObjectID(), decimal.RequireFromString("-5"), constants.PaymentMethodCash, "", testOperator))
		require.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("oversized amount is rejected before any repository call", func(t *testing.T) {
		billsRepo := newMockBillsRepository()
		l := newTestPaymentLogic(newMockClientsRepository(), billsRepo, newMockPaymentsRepository(),
			newMockTransactionsRepository(), newMockAuditLogRepository(), newMockOutboxRepository())

		// Parses fine but overflows the storage form; it must never reach the
		// point where the amount is converted.
		_, err := l.PayBill(ctx, dto.NewPayBillRequest(
			primitive.NewObjectID(), decimal.RequireFromString("1e9999"), constants.PaymentMethodCash, "", testOperator))
		require.ErrorIs(t, err, ErrInvalidAmount)
		billsRepo.AssertNotCalled(t, "GetBillByID", mock.Anything, mock.Anything)
	})
}

func TestPayAllBills(t *testing.T) {
	ctx := context.Background()

	t.Run("distributes across bills oldest first", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		paymentsRepo := newMockPaymentsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		client := &models.Client{ID: primitive.NewObjectID(), Name: "Bulk Payer"}
		bills := []*models.Bill{
			unpaidBill(client.ID, "30.00", "0"),
			unpaidBill(client.ID, "20.00", "0"),
			unpaidBill(client.ID, "10.00", "0"),
		}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("GetUnpaidBillsByClient", mock.Anything, client.ID).Return(bills, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{
				clientTx(client.ID, constants.TransactionTypeBill, "30.00"),
				clientTx(client.ID, constants.TransactionTypeBill, "20.00"),
				clientTx(client.ID, constants.TransactionTypeBill, "10.00"),
			}, nil).Once()
		// 45 covers the first bill and 15 of the second; the third is untouched.
		billsRepo.On("UpdateBill", mock.Anything, bills[0].ID, mock.Anything).Return(nil).Once()
		billsRepo.On("UpdateBill", mock.Anything, bills[1].ID, mock.Anything).Return(nil).Once()
		paymentsRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.Bill == bills[0].ID || p.Bill == bills[1].ID
		})).Return(primitive.NewObjectID(), nil).Twice()
		entryID := primitive.NewObjectID()
		transactionsRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(entry *models.Transaction) bool {
			amount, err := money.FromDecimal128(entry.Amount)
			require.NoError(t, err)
			return entry.Type == constants.TransactionTypeBulkPayment.String() &&
				amount.Equal(decimal.RequireFromString("45"))
		})).Return(entryID, nil).Once()
		clientsRepo.On("UpdateClient", mock.Anything, client.ID, mock.Anything).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, paymentsRepo, transactionsRepo, auditLogRepo, outboxRepo)
		result, err := l.PayAllBills(ctx, dto.NewPayAllBillsRequest(
			client.ID, decimal.RequireFromString("45.00"), constants.PaymentMethodCash, "", testOperator))

		require.NoError(t, err)
		assert.Equal(t, entryID, result.TransactionID)
		require.Len(t, result.PaidBills, 2)
		assert.Equal(t, bills[0].ID, result.PaidBills[0].BillID)
		assert.True(t, result.PaidBills[0].Amount.Equal(decimal.RequireFromString("30")))
		assert.Equal(t, bills[1].ID, result.PaidBills[1].BillID)
		assert.True(t, result.PaidBills[1].Amount.Equal(decimal.RequireFromString("15")))
		assert.True(t, result.Remaining.IsZero())

		billsRepo.AssertExpectations(t)
		paymentsRepo.AssertExpectations(t)
		transactionsRepo.AssertExpectations(t)
	})

	t.Run("overpayment reports the remainder", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		paymentsRepo := newMockPaymentsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		bill := unpaidBill(client.ID, "30.00", "0")
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("GetUnpaidBillsByClient", mock.Anything, client.ID).Return([]*models.Bill{bill}, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{clientTx(client.ID, constants.TransactionTypeBill, "30.00")}, nil).Once()
		billsRepo.On("UpdateBill", mock.Anything, bill.ID, mock.Anything).Return(nil).Once()
		paymentsRepo.On("CreatePayment", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil).Once()
		// The consolidated entry records only the applied 30, not the requested 50.
		transactionsRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(entry *models.Transaction) bool {
			amount, err := money.FromDecimal128(entry.Amount)
			require.NoError(t, err)
			return amount.Equal(decimal.RequireFromString("30"))
		})).Return(primitive.NewObjectID(), nil).Once()
		clientsRepo.On("UpdateClient", mock.Anything, client.ID, mock.Anything).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, paymentsRepo, transactionsRepo, auditLogRepo, outboxRepo)
		result, err := l.PayAllBills(ctx, dto.NewPayAllBillsRequest(
			client.ID, decimal.RequireFromString("50.00"), constants.PaymentMethodCash, "", testOperator))

		require.NoError(t, err)
		assert.True(t, result.Remaining.Equal(decimal.RequireFromString("20")), "remaining = %s", result.Remaining)
	})

	t.Run("bulk deposit payment marks records with the bulk method", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		paymentsRepo := newMockPaymentsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		bill := unpaidBill(client.ID, "40.00", "0")
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("GetUnpaidBillsByClient", mock.Anything, client.ID).Return([]*models.Bill{bill}, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{
				clientTx(client.ID, constants.TransactionTypeDeposit, "100.00"),
				clientTx(client.ID, constants.TransactionTypeBill, "40.00"),
			}, nil).Once()
		billsRepo.On("UpdateBill", mock.Anything, bill.ID, mock.Anything).Return(nil).Once()
		paymentsRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.PaymentMethod == constants.PaymentMethodBulkDeposit.String()
		})).Return(primitive.NewObjectID(), nil).Once()
		transactionsRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(entry *models.Transaction) bool {
			return entry.Type == constants.TransactionTypeBulkDepositUsed.String()
		})).Return(primitive.NewObjectID(), nil).Once()
		clientsRepo.On("UpdateClient", mock.Anything, client.ID, mock.Anything).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, paymentsRepo, transactionsRepo, auditLogRepo, outboxRepo)
		result, err := l.PayAllBills(ctx, dto.NewPayAllBillsRequest(
			client.ID, decimal.RequireFromString("40.00"), constants.PaymentMethodDeposit, "", testOperator))

		require.NoError(t, err)
		assert.True(t, result.Remaining.IsZero())
		paymentsRepo.AssertExpectations(t)
		transactionsRepo.AssertExpectations(t)
	})

	t.Run("bulk deposit refused when credit cannot cover the amount", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		transactionsRepo := newMockTransactionsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("GetUnpaidBillsByClient", mock.Anything, client.ID).
			Return([]*models.Bill{unpaidBill(client.ID, "40.00", "0")}, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{
				clientTx(client.ID, constants.TransactionTypeDeposit, "10.00"),
				clientTx(client.ID, constants.TransactionTypeBill, "40.00"),
			}, nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, newMockPaymentsRepository(),
			transactionsRepo, newMockAuditLogRepository(), newMockOutboxRepository())
		_, err := l.PayAllBills(ctx, dto.NewPayAllBillsRequest(
			client.ID, decimal.RequireFromString("20.00"), constants.PaymentMethodDeposit, "", testOperator))

		require.ErrorIs(t, err, ErrInsufficientCredit)
		billsRepo.AssertNotCalled(t, "UpdateBill", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no unpaid bills", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("GetUnpaidBillsByClient", mock.Anything, client.ID).Return([]*models.Bill{}, nil).Once()

		l := newTestPaymentLogic(clientsRepo, billsRepo, newMockPaymentsRepository(),
			newMockTransactionsRepository(), newMockAuditLogRepository(), newMockOutboxRepository())
		_, err := l.PayAllBills(ctx, dto.NewPayAllBillsRequest(
			client.ID, decimal.RequireFromString("10.00"), constants.PaymentMethodCash, "", testOperator))

		require.ErrorIs(t, err, ErrNothingToPay)
	})

	t.Run("oversized amount is rejected before any repository call", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		l := newTestPaymentLogic(clientsRepo, newMockBillsRepository(), newMockPaymentsRepository(),
			newMockTransactionsRepository(), newMockAuditLogRepository(), newMockOutboxRepository())

		_, err := l.PayAllBills(ctx, dto.NewPayAllBillsRequest(
			primitive.NewObjectID(), decimal.RequireFromString("1e9999"), constants.PaymentMethodCash, "", testOperator))
		require.ErrorIs(t, err, ErrInvalidAmount)
		clientsRepo.AssertNotCalled(t, "GetClientByID", mock.Anything, mock.Anything)
	})
}

// --- Mocks ---

type mockClientsRepository struct {
	mock.Mock
}

func newMockClientsRepository() *mockClientsRepository {
	return &mockClientsRepository{}
}

func (m *mockClientsRepository) CreateClient(ctx context.Context, client *models.Client) (primitive.ObjectID, error) {
	args := m.Called(ctx, client)
	if oid := args.Get(0); oid != nil {
		return oid.(primitive.ObjectID), args.Error(1)
	}
	return primitive.NilObjectID, args.Error(1)
}

func (m *mockClientsRepository) GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if client := args.Get(0); client != nil {
		return client.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientsRepository) GetClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	args := m.Called(ctx, phone)
	if client := args.Get(0); client != nil {
		return client.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientsRepository) UpdateClient(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, id, opts)
	return args.Error(0)
}

func (m *mockClientsRepository) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClientsRepository) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, int64, error) {
	args := m.Called(ctx, limit, offset)
	if clients := args.Get(0); clients != nil {
		return clients.([]*models.Client), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

type mockBillsRepository struct {
	mock.Mock
}

func newMockBillsRepository() *mockBillsRepository {
	return &mockBillsRepository{}
}

func (m *mockBillsRepository) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	args := m.Called(ctx, bill)
	if oid := args.Get(0); oid != nil {
		return oid.(primitive.ObjectID), args.Error(1)
	}
	return primitive.NilObjectID, args.Error(1)
}

func (m *mockBillsRepository) GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	args := m.Called(ctx, id)
	if bill := args.Get(0); bill != nil {
		return bill.(*models.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillsRepository) GetBillsByClient(ctx context.Context, clientID primitive.ObjectID, limit, offset int) ([]*models.Bill, int64, error) {
	args := m.Called(ctx, clientID, limit, offset)
	if bills := args.Get(0); bills != nil {
		return bills.([]*models.Bill), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *mockBillsRepository) GetUnpaidBillsByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Bill, error) {
	args := m.Called(ctx, clientID)
	if bills := args.Get(0); bills != nil {
		return bills.([]*models.Bill), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBillsRepository) CountUnpaidBillsByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBillsRepository) UpdateBill(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, id, opts)
	return args.Error(0)
}

func (m *mockBillsRepository) DeleteBill(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBillsRepository) SumBillsByDateRange(ctx context.Context, from, to time.Time) (*dto.RevenueTotals, error) {
	args := m.Called(ctx, from, to)
	if totals := args.Get(0); totals != nil {
		return totals.(*dto.RevenueTotals), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPaymentsRepository struct {
	mock.Mock
}

func newMockPaymentsRepository() *mockPaymentsRepository {
	return &mockPaymentsRepository{}
}

func (m *mockPaymentsRepository) CreatePayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	args := m.Called(ctx, payment)
	if oid := args.Get(0); oid != nil {
		return oid.(primitive.ObjectID), args.Error(1)
	}
	return primitive.NilObjectID, args.Error(1)
}

func (m *mockPaymentsRepository) GetPaymentsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, error) {
	args := m.Called(ctx, billID)
	if payments := args.Get(0); payments != nil {
		return payments.([]*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentsRepository) DeletePaymentsByBill(ctx context.Context, billID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(int64), args.Error(1)
}

type mockTransactionsRepository struct {
	mock.Mock
}

func newMockTransactionsRepository() *mockTransactionsRepository {
	return &mockTransactionsRepository{}
}

func (m *mockTransactionsRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) (primitive.ObjectID, error) {
	args := m.Called(ctx, tx)
	if oid := args.Get(0); oid != nil {
		return oid.(primitive.ObjectID), args.Error(1)
	}
	return primitive.NilObjectID, args.Error(1)
}

func (m *mockTransactionsRepository) GetTransactionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Transaction, error) {
	args := m.Called(ctx, clientID)
	if transactions := args.Get(0); transactions != nil {
		return transactions.([]*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTransactionsRepository) GetTransactionsByClientPage(ctx context.Context, params *repository.GetTransactionsPageParams) ([]*models.Transaction, error) {
	args := m.Called(ctx, params)
	if transactions := args.Get(0); transactions != nil {
		return transactions.([]*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTransactionsRepository) DeleteTransactionsByBill(ctx context.Context, billID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionsRepository) DeleteTransactionsByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditLogRepository struct {
	mock.Mock
}

func newMockAuditLogRepository() *mockAuditLogRepository {
	return &mockAuditLogRepository{}
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type mockOutboxRepository struct {
	mock.Mock
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{}
}

func (m *mockOutboxRepository) Create(ctx context.Context, message *models.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockOutboxRepository) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if messages := args.Get(0); messages != nil {
		return messages.([]*models.OutboxMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOutboxRepository) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepository) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}
