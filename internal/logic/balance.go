package logic

import (
	"fmt"

	"github.com/shopspring/decimal"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
)

// LedgerView selects which projection of the transaction stream a running
// balance series renders. The bill view and the credit view replay the same
// stream with different signs; they are intentionally distinct and must not
// be mixed in one listing.
type LedgerView string

const (
	// LedgerViewBill renders what the client owes: bill entries subtract,
	// deposits and payments add.
	LedgerViewBill LedgerView = "bill"
	// LedgerViewCredit renders the prepaid credit position: deposits add,
	// everything else subtracts.
	LedgerViewCredit LedgerView = "credit"
)

func ParseLedgerView(s string) (LedgerView, bool) {
	switch LedgerView(s) {
	case LedgerViewBill, LedgerViewCredit:
		return LedgerView(s), true
	}
	return "", false
}

// RunningBalancePoint pairs a transaction with the cumulative balance after
// replaying the stream up to and including it.
type RunningBalancePoint struct {
	Transaction *models.Transaction
	Balance     decimal.Decimal
}

// UnpaidDue sums the outstanding amount across bills. Fully paid and
// overpaid bills contribute zero.
func UnpaidDue(bills []*models.Bill) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, bill := range bills {
		amount, err := money.FromDecimal128(bill.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bill %s has invalid amount: %w", bill.ID.Hex(), err)
		}
		paid, err := money.FromDecimal128(bill.PaidAmount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bill %s has invalid paid amount: %w", bill.ID.Hex(), err)
		}
		total = total.Add(money.DueOf(amount, paid))
	}
	return money.Round2(total), nil
}

// CreditAvailable derives the client's usable prepaid credit from the
// transaction stream. This is the authoritative figure; the cached client
// deposit field is reconciled against it after every mutation. The result is
// floored at zero.
func CreditAvailable(transactions []*models.Transaction) (decimal.Decimal, error) {
	credit := decimal.Zero
	for _, tx := range transactions {
		txType, ok := constants.ParseTransactionType(tx.Type)
		if !ok {
			return decimal.Zero, fmt.Errorf("transaction %s has unknown type %q", tx.ID.Hex(), tx.Type)
		}
		amount, err := money.FromDecimal128(tx.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transaction %s has invalid amount: %w", tx.ID.Hex(), err)
		}
		switch {
		case txType.IsCredit():
			credit = credit.Add(amount)
		case txType.ConsumesCredit():
			credit = credit.Sub(amount)
		}
	}
	credit = money.Round2(credit)
	if credit.IsNegative() {
		return decimal.Zero, nil
	}
	return credit, nil
}

// BilledTotal derives the client's lifetime billed amount from the stream.
func BilledTotal(transactions []*models.Transaction) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type != constants.TransactionTypeBill.String() {
			continue
		}
		amount, err := money.FromDecimal128(tx.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transaction %s has invalid amount: %w", tx.ID.Hex(), err)
		}
		total = total.Add(amount)
	}
	return money.Round2(total), nil
}

// ClientTotals is the set of cached client fields derived from the
// transaction stream. Balance is always Billed minus Credit.
type ClientTotals struct {
	Billed  decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// DerivedTotals recomputes the client's cached fields from the stream. It is
// the single source for reconciling the cache after any ledger mutation.
func DerivedTotals(transactions []*models.Transaction) (*ClientTotals, error) {
	billed, err := BilledTotal(transactions)
	if err != nil {
		return nil, err
	}
	credit, err := CreditAvailable(transactions)
	if err != nil {
		return nil, err
	}
	return &ClientTotals{
		Billed:  billed,
		Credit:  credit,
		Balance: money.Round2(billed.Sub(credit)),
	}, nil
}

// RunningBalanceSeries replays transactions (already in chronological order)
// and produces the cumulative balance column for the requested view.
func RunningBalanceSeries(transactions []*models.Transaction, view LedgerView) ([]RunningBalancePoint, error) {
	points := make([]RunningBalancePoint, 0, len(transactions))
	balance := decimal.Zero
	for _, tx := range transactions {
		txType, ok := constants.ParseTransactionType(tx.Type)
		if !ok {
			return nil, fmt.Errorf("transaction %s has unknown type %q", tx.ID.Hex(), tx.Type)
		}
		amount, err := money.FromDecimal128(tx.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount: %w", tx.ID.Hex(), err)
		}
		balance = balance.Add(amount.Mul(viewSign(txType, view)))
		points = append(points, RunningBalancePoint{Transaction: tx, Balance: money.Round2(balance)})
	}
	return points, nil
}

func viewSign(txType constants.TransactionType, view LedgerView) decimal.Decimal {
	one := decimal.NewFromInt(1)
	minusOne := decimal.NewFromInt(-1)
	switch view {
	case LedgerViewBill:
		if txType == constants.TransactionTypeBill {
			return minusOne
		}
		return one
	default: // LedgerViewCredit
		if txType.IsCredit() {
			return one
		}
		return minusOne
	}
}
