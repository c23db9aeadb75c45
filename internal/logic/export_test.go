package logic

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/models"
)

func TestExportTransactions(t *testing.T) {
	ctx := context.Background()

	clientsRepo := newMockClientsRepository()
	transactionsRepo := newMockTransactionsRepository()

	client := &models.Client{ID: primitive.NewObjectID(), Name: "CSV Client"}
	deposit := clientTx(client.ID, constants.TransactionTypeDeposit, "100.00")
	deposit.Description = "opening credit"
	used := clientTx(client.ID, constants.TransactionTypeDepositUsed, "40.00")
	used.PaymentMethod = constants.PaymentMethodDeposit.String()
	billID := primitive.NewObjectID()
	used.Bill = &billID

	clientsRepo.On("GetClientByID", mock.Anything, client.ID).Return(client, nil).Twice()
	transactionsRepo.On("GetTransactionsByClient", mock.Anything, client.ID).
		Return([]*models.Transaction{deposit, used}, nil).Once()

	l := newTestClientLogic(clientsRepo, newMockBillsRepository(), transactionsRepo,
		newMockAuditLogRepository(), newMockOutboxRepository())
	filename, data, err := l.ExportTransactions(ctx, client.ID, LedgerViewCredit)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "transactions_"+client.ID.Hex()+"_credit_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"date", "type", "amount", "payment_method", "bill_id", "description", "running_balance"}, records[0])

	assert.Equal(t, "deposit", records[1][1])
	assert.Equal(t, "100.00", records[1][2])
	assert.Equal(t, "opening credit", records[1][5])
	assert.Equal(t, "100.00", records[1][6])

	assert.Equal(t, "deposit_used", records[2][1])
	assert.Equal(t, "40.00", records[2][2])
	assert.Equal(t, billID.Hex(), records[2][4])
	assert.Equal(t, "60.00", records[2][6])
}
