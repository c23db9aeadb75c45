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
	"washline_ledger/internal/dao/mongodb"
	"washline_ledger/internal/db"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
	"washline_ledger/pkg/pagination"
)

func newTestClientLogic(
	clientsRepo *mockClientsRepository,
	billsRepo *mockBillsRepository,
	transactionsRepo *mockTransactionsRepository,
	auditLogRepo *mockAuditLogRepository,
	outboxRepo *mockOutboxRepository,
) *ClientLogic {
	return &ClientLogic{
		tm:               db.NewNoOpTransactionManager(),
		clientsRepo:      clientsRepo,
		billsRepo:        billsRepo,
		transactionsRepo: transactionsRepo,
		auditLogRepo:     auditLogRepo,
		eventPublisher:   NewLedgerEventPublisher(outboxRepo, "ledger.events"),
		logger:           zap.NewNop(),
	}
}

func TestCreateClient(t *testing.T) {
	ctx := context.Background()

	clientsRepo := newMockClientsRepository()
	auditLogRepo := newMockAuditLogRepository()
	clientsRepo.On("CreateClient", mock.Anything, mock.MatchedBy(func(c *models.Client) bool {
		return c.Name == "Dry Cleaner" && c.Phone == "0912345678" && c.CreatedBy == testOperator
	})).Return(primitive.NewObjectID(), nil).Once()
	auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	l := newTestClientLogic(clientsRepo, newMockBillsRepository(), newMockTransactionsRepository(),
		auditLogRepo, newMockOutboxRepository())
	client, err := l.CreateClient(ctx, dto.NewCreateClientRequest("Dry Cleaner", "0912345678", "5 Soap Ave", testOperator))

	require.NoError(t, err)
	require.NotNil(t, client)
	// New clients start with zeroed cached totals.
	balance, err := money.FromDecimal128(client.Balance)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	clientsRepo.AssertExpectations(t)
}

func TestAddDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the prepaid balance", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()
		outboxRepo := newMockOutboxRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{clientTx(client.ID, constants.TransactionTypeBill, "30.00")}, nil).Once()
		transactionsRepo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(entry *models.Transaction) bool {
			balance, err := money.FromDecimal128(entry.RunningBalance)
			require.NoError(t, err)
			// Billed 30 minus the new 100 of credit.
			return entry.Type == constants.TransactionTypeDeposit.String() &&
				balance.Equal(decimal.RequireFromString("-70"))
		})).Return(primitive.NewObjectID(), nil).Once()
		clientsRepo.On("UpdateClient", mock.Anything, client.ID, mock.Anything).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		l := newTestClientLogic(clientsRepo, newMockBillsRepository(), transactionsRepo, auditLogRepo, outboxRepo)
		entry, err := l.AddDeposit(ctx, dto.NewAddDepositRequest(
			client.ID, decimal.RequireFromString("100.00"), "opening credit", testOperator))

		require.NoError(t, err)
		assert.Equal(t, "opening credit", entry.Description)
		transactionsRepo.AssertExpectations(t)
		clientsRepo.AssertExpectations(t)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		l := newTestClientLogic(newMockClientsRepository(), newMockBillsRepository(),
			newMockTransactionsRepository(), newMockAuditLogRepository(), newMockOutboxRepository())
		_, err := l.AddDeposit(ctx, dto.NewAddDepositRequest(
			primitive.NewObjectID(), decimal.Zero, "", testOperator))
		require.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("oversized amount is rejected before any repository call", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		l := newTestClientLogic(clientsRepo, newMockBillsRepository(),
			newMockTransactionsRepository(), newMockAuditLogRepository(), newMockOutboxRepository())
		_, err := l.AddDeposit(ctx, dto.NewAddDepositRequest(
			primitive.NewObjectID(), decimal.RequireFromString("1e9999"), "", testOperator))
		require.ErrorIs(t, err, ErrInvalidAmount)
		clientsRepo.AssertNotCalled(t, "GetClientByID", mock.Anything, mock.Anything)
	})
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a settled client and their history", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		transactionsRepo := newMockTransactionsRepository()
		auditLogRepo := newMockAuditLogRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("CountUnpaidBillsByClient", mock.Anything, client.ID).Return(int64(0), nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{
				clientTx(client.ID, constants.TransactionTypeBill, "30.00"),
				clientTx(client.ID, constants.TransactionTypePayment, "30.00"),
			}, nil).Once()
		transactionsRepo.On("DeleteTransactionsByClient", mock.Anything, client.ID).Return(int64(2), nil).Once()
		clientsRepo.On("DeleteClient", mock.Anything, client.ID).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		l := newTestClientLogic(clientsRepo, billsRepo, transactionsRepo, auditLogRepo, newMockOutboxRepository())
		require.NoError(t, l.DeleteClient(ctx, client.ID, testOperator))
		clientsRepo.AssertExpectations(t)
		transactionsRepo.AssertExpectations(t)
	})

	t.Run("refused while bills are unpaid", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("CountUnpaidBillsByClient", mock.Anything, client.ID).Return(int64(2), nil).Once()

		l := newTestClientLogic(clientsRepo, billsRepo, newMockTransactionsRepository(),
			newMockAuditLogRepository(), newMockOutboxRepository())
		err := l.DeleteClient(ctx, client.ID, testOperator)

		require.ErrorIs(t, err, ErrClientHasOutstanding)
		clientsRepo.AssertNotCalled(t, "DeleteClient", mock.Anything, mock.Anything)
	})

	t.Run("refused while prepaid credit remains", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()
		transactionsRepo := newMockTransactionsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("CountUnpaidBillsByClient", mock.Anything, client.ID).Return(int64(0), nil).Once()
		transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
			Return([]*models.Transaction{clientTx(client.ID, constants.TransactionTypeDeposit, "25.00")}, nil).Once()

		l := newTestClientLogic(clientsRepo, billsRepo, transactionsRepo,
			newMockAuditLogRepository(), newMockOutboxRepository())
		err := l.DeleteClient(ctx, client.ID, testOperator)

		require.ErrorIs(t, err, ErrClientHasOutstanding)
		transactionsRepo.AssertNotCalled(t, "DeleteTransactionsByClient", mock.Anything, mock.Anything)
	})
}

func TestStatement(t *testing.T) {
	ctx := context.Background()

	clientsRepo := newMockClientsRepository()
	billsRepo := newMockBillsRepository()
	transactionsRepo := newMockTransactionsRepository()

	client := &models.Client{ID: primitive.NewObjectID(), Name: "Statement Client"}
	bills := []*models.Bill{unpaidBill(client.ID, "50.00", "20.00")}
	clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
	billsRepo.On("GetUnpaidBillsByClient", mock.Anything, client.ID).Return(bills, nil).Once()
	transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
		Return([]*models.Transaction{
			clientTx(client.ID, constants.TransactionTypeDeposit, "100.00"),
			clientTx(client.ID, constants.TransactionTypeBill, "50.00"),
			clientTx(client.ID, constants.TransactionTypeDepositUsed, "20.00"),
		}, nil).Once()
	billsRepo.On("GetBillsByClient", mock.Anything, client.ID, 10, 0).Return(bills, int64(1), nil).Once()

	l := newTestClientLogic(clientsRepo, billsRepo, transactionsRepo,
		newMockAuditLogRepository(), newMockOutboxRepository())
	statement, err := l.Statement(ctx, client.ID, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, "30.00", statement.UnpaidDue)
	assert.Equal(t, "80.00", statement.CreditAvailable)
	assert.Len(t, statement.Bills, 1)
	assert.Len(t, statement.Transactions, 3)
}

func TestBills(t *testing.T) {
	ctx := context.Background()

	t.Run("pages a client's bills", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		page := []*models.Bill{unpaidBill(client.ID, "50.00", "0.00")}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		billsRepo.On("GetBillsByClient", mock.Anything, client.ID, 10, 0).Return(page, int64(4), nil).Once()

		l := newTestClientLogic(clientsRepo, billsRepo, newMockTransactionsRepository(),
			newMockAuditLogRepository(), newMockOutboxRepository())
		bills, total, err := l.Bills(ctx, client.ID, 10, 0)

		require.NoError(t, err)
		assert.Len(t, bills, 1)
		assert.Equal(t, int64(4), total)
	})

	t.Run("unknown client propagates not found", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		billsRepo := newMockBillsRepository()

		id := primitive.NewObjectID()
		clientsRepo.On("GetClientByID", mock.Anything, id).Return(nil, mongodb.ErrNotFound).Once()

		l := newTestClientLogic(clientsRepo, billsRepo, newMockTransactionsRepository(),
			newMockAuditLogRepository(), newMockOutboxRepository())
		_, _, err := l.Bills(ctx, id, 10, 0)

		require.ErrorIs(t, err, mongodb.ErrNotFound)
		billsRepo.AssertNotCalled(t, "GetBillsByClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransactionsPage(t *testing.T) {
	ctx := context.Background()

	t.Run("full page carries a token for the next one", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		transactionsRepo := newMockTransactionsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		page := []*models.Transaction{
			clientTx(client.ID, constants.TransactionTypeBill, "10.00"),
			clientTx(client.ID, constants.TransactionTypeBill, "20.00"),
		}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		transactionsRepo.On("GetTransactionsByClientPage", mock.Anything, mock.Anything).Return(page, nil).Once()

		l := newTestClientLogic(clientsRepo, newMockBillsRepository(), transactionsRepo,
			newMockAuditLogRepository(), newMockOutboxRepository())
		transactions, next, err := l.TransactionsPage(ctx, client.ID, "", 2)

		require.NoError(t, err)
		assert.Len(t, transactions, 2)
		require.NotEmpty(t, next)

		// The token decodes back to the last entry of the page.
		cursor, err := next.Decode()
		require.NoError(t, err)
		assert.Equal(t, page[1].ID.Hex(), cursor.CursorID)
	})

	t.Run("short page ends the listing", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		transactionsRepo := newMockTransactionsRepository()

		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()
		transactionsRepo.On("GetTransactionsByClientPage", mock.Anything, mock.Anything).
			Return([]*models.Transaction{clientTx(client.ID, constants.TransactionTypeBill, "10.00")}, nil).Once()

		l := newTestClientLogic(clientsRepo, newMockBillsRepository(), transactionsRepo,
			newMockAuditLogRepository(), newMockOutboxRepository())
		_, next, err := l.TransactionsPage(ctx, client.ID, "", 5)

		require.NoError(t, err)
		assert.Empty(t, next)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		clientsRepo := newMockClientsRepository()
		client := &models.Client{ID: primitive.NewObjectID()}
		clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Once()

		l := newTestClientLogic(clientsRepo, newMockBillsRepository(), newMockTransactionsRepository(),
			newMockAuditLogRepository(), newMockOutboxRepository())
		_, _, err := l.TransactionsPage(ctx, client.ID, pagination.PageToken("not-base64!"), 5)

		require.ErrorIs(t, err, pagination.ErrInvalidToken)
	})
}

func TestRevenue(t *testing.T) {
	ctx := context.Background()

	billsRepo := newMockBillsRepository()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	billsRepo.On("SumBillsByDateRange", mock.Anything, from, to).Return(&dto.RevenueTotals{
		Billed: money.MustDecimal128(decimal.RequireFromString("500.00")),
		Paid:   money.MustDecimal128(decimal.RequireFromString("350.00")),
		Bills:  12,
	}, nil).Once()

	l := newTestClientLogic(newMockClientsRepository(), billsRepo, newMockTransactionsRepository(),
		newMockAuditLogRepository(), newMockOutboxRepository())
	totals, err := l.Revenue(ctx, from, to)

	require.NoError(t, err)
	pending, err := money.FromDecimal128(totals.Pending)
	require.NoError(t, err)
	assert.True(t, pending.Equal(decimal.RequireFromString("150")), "pending = %s", pending)
	assert.Equal(t, int64(12), totals.Bills)
}
