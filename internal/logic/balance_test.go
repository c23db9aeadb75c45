package logic

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
)

func tx(txType constants.TransactionType, amount string) *models.Transaction {
	return &models.Transaction{
		ID:     primitive.NewObjectID(),
		Type:   txType.String(),
		Amount: money.MustDecimal128(decimal.RequireFromString(amount)),
	}
}

func TestDerivedTotals(t *testing.T) {
	transactions := []*models.Transaction{
		tx(constants.TransactionTypeDeposit, "100.00"),
		tx(constants.TransactionTypeBill, "60.00"),
		tx(constants.TransactionTypeDepositUsed, "40.00"),
		tx(constants.TransactionTypeBill, "25.00"),
		tx(constants.TransactionTypePayment, "25.00"),
	}

	totals, err := DerivedTotals(transactions)
	require.NoError(t, err)

	assert.True(t, totals.Billed.Equal(decimal.RequireFromString("85")), "billed = %s", totals.Billed)
	assert.True(t, totals.Credit.Equal(decimal.RequireFromString("60")), "credit = %s", totals.Credit)
	assert.True(t, totals.Balance.Equal(decimal.RequireFromString("25")), "balance = %s", totals.Balance)
	// The cache invariant holds by construction.
	assert.True(t, totals.Balance.Equal(totals.Billed.Sub(totals.Credit)))
}

func TestDerivedTotalsEmptyStream(t *testing.T) {
	totals, err := DerivedTotals(nil)
	require.NoError(t, err)
	assert.True(t, totals.Billed.IsZero())
	assert.True(t, totals.Credit.IsZero())
	assert.True(t, totals.Balance.IsZero())
}

func TestDerivedTotalsUnknownType(t *testing.T) {
	transactions := []*models.Transaction{
		{ID: primitive.NewObjectID(), Type: "refund", Amount: money.MustDecimal128(decimal.New(1, 0))},
	}
	_, err := DerivedTotals(transactions)
	assert.Error(t, err)
}

func TestCreditAvailableFlooredAtZero(t *testing.T) {
	transactions := []*models.Transaction{
		tx(constants.TransactionTypeDeposit, "10.00"),
		tx(constants.TransactionTypeDepositUsed, "15.00"),
	}
	credit, err := CreditAvailable(transactions)
	require.NoError(t, err)
	assert.True(t, credit.IsZero(), "credit = %s", credit)
}

func TestUnpaidDue(t *testing.T) {
	bill := func(amount, paid string) *models.Bill {
		return &models.Bill{
			ID:         primitive.NewObjectID(),
			Amount:     money.MustDecimal128(decimal.RequireFromString(amount)),
			PaidAmount: money.MustDecimal128(decimal.RequireFromString(paid)),
		}
	}
	due, err := UnpaidDue([]*models.Bill{
		bill("30.00", "0"),
		bill("20.00", "5.00"),
		bill("10.00", "12.00"), // overpaid contributes zero
	})
	require.NoError(t, err)
	assert.True(t, due.Equal(decimal.RequireFromString("45")), "due = %s", due)
}

func TestRunningBalanceSeriesCreditView(t *testing.T) {
	transactions := []*models.Transaction{
		tx(constants.TransactionTypeDeposit, "100.00"),
		tx(constants.TransactionTypeDepositUsed, "30.00"),
		tx(constants.TransactionTypeBill, "50.00"),
	}

	points, err := RunningBalanceSeries(transactions, LedgerViewCredit)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Deposits add, everything else subtracts.
	assert.Equal(t, "100.00", points[0].Balance.StringFixed(2))
	assert.Equal(t, "70.00", points[1].Balance.StringFixed(2))
	assert.Equal(t, "20.00", points[2].Balance.StringFixed(2))
}

func TestRunningBalanceSeriesBillView(t *testing.T) {
	transactions := []*models.Transaction{
		tx(constants.TransactionTypeBill, "50.00"),
		tx(constants.TransactionTypePayment, "20.00"),
		tx(constants.TransactionTypeDeposit, "10.00"),
	}

	points, err := RunningBalanceSeries(transactions, LedgerViewBill)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Bills subtract, payments and deposits add.
	assert.Equal(t, "-50.00", points[0].Balance.StringFixed(2))
	assert.Equal(t, "-30.00", points[1].Balance.StringFixed(2))
	assert.Equal(t, "-20.00", points[2].Balance.StringFixed(2))
}

func TestParseLedgerView(t *testing.T) {
	view, ok := ParseLedgerView("bill")
	assert.True(t, ok)
	assert.Equal(t, LedgerViewBill, view)

	view, ok = ParseLedgerView("credit")
	assert.True(t, ok)
	assert.Equal(t, LedgerViewCredit, view)

	_, ok = ParseLedgerView("summary")
	assert.False(t, ok)
}
