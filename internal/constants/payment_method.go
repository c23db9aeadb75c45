package constants

// PaymentMethod defines how a payment was funded.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodBank    PaymentMethod = "bank"
	PaymentMethodDeposit PaymentMethod = "deposit"
	// PaymentMethodBulkDeposit marks the consolidated payment records created by a
	// bulk deposit-funded payment, to keep them distinguishable from single ones.
	PaymentMethodBulkDeposit PaymentMethod = "bulk_deposit"
)

// String returns the string representation of the PaymentMethod.
func (m PaymentMethod) String() string {
	return string(m)
}

var paymentMethodMap = map[string]PaymentMethod{
	"cash":         PaymentMethodCash,
	"card":         PaymentMethodCard,
	"bank":         PaymentMethodBank,
	"deposit":      PaymentMethodDeposit,
	"bulk_deposit": PaymentMethodBulkDeposit,
}

// ParsePaymentMethod returns the PaymentMethod for s, or false if s is unknown.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m, ok := paymentMethodMap[s]
	return m, ok
}

// UsesDeposit reports whether the method is funded from the client's prepaid credit.
func (m PaymentMethod) UsesDeposit() bool {
	return m == PaymentMethodDeposit || m == PaymentMethodBulkDeposit
}
