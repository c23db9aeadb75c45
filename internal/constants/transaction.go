package constants

// TransactionType defines the type for ledger transaction entries.
// Using a dedicated type enhances type safety.
type TransactionType string

const (
	// TransactionTypeBill is appended when a bill is opened or grows from an attached order.
	TransactionTypeBill TransactionType = "bill"
	// TransactionTypeDeposit is appended when a client adds prepaid credit.
	TransactionTypeDeposit TransactionType = "deposit"
	// TransactionTypeDepositUsed is appended when prepaid credit funds a single bill.
	TransactionTypeDepositUsed TransactionType = "deposit_used"
	// TransactionTypePayment is appended for a cash/card/bank payment on a single bill.
	TransactionTypePayment TransactionType = "payment"
	// TransactionTypeBulkPayment is the consolidated entry for a bulk cash/card/bank payment.
	TransactionTypeBulkPayment TransactionType = "bulk_payment"
	// TransactionTypeBulkDepositUsed is the consolidated entry for a bulk deposit-funded payment.
	TransactionTypeBulkDepositUsed TransactionType = "bulk_deposit_used"
)

// String returns the string representation of the TransactionType.
func (t TransactionType) String() string {
	return string(t)
}

var transactionTypeMap = map[string]TransactionType{
	"bill":              TransactionTypeBill,
	"deposit":           TransactionTypeDeposit,
	"deposit_used":      TransactionTypeDepositUsed,
	"payment":           TransactionTypePayment,
	"bulk_payment":      TransactionTypeBulkPayment,
	"bulk_deposit_used": TransactionTypeBulkDepositUsed,
}

// ParseTransactionType returns the TransactionType for s, or false if s is not a known type.
func ParseTransactionType(s string) (TransactionType, bool) {
	t, ok := transactionTypeMap[s]
	return t, ok
}

// IsCredit reports whether the transaction adds to the client's available credit.
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDeposit
}

// ConsumesCredit reports whether the transaction draws down the client's available credit.
func (t TransactionType) ConsumesCredit() bool {
	return t == TransactionTypeDepositUsed || t == TransactionTypeBulkDepositUsed
}
