// Package money holds the rounding policy for all monetary arithmetic.
//
// Amounts are stored as primitive.Decimal128 (fixed point, two decimal
// places) and never as binary floats. All arithmetic and comparisons go
// through shopspring/decimal so that rounding happens once, explicitly, at
// the point a value is persisted or displayed.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaidTolerance is the slack allowed when deciding whether a bill is fully
// paid: paidAmount >= amount - 0.01 counts as paid.
var PaidTolerance = decimal.RequireFromString("0.01")

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// FromDecimal128 converts a stored Decimal128 into an arithmetic decimal.
func FromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	// The zero value of Decimal128 renders as "0E-6176", which
	// decimal.NewFromString handles, but NaN/Inf must be rejected.
	if d.IsNaN() || d.IsInf() != 0 {
		return decimal.Decimal{}, fmt.Errorf("cannot convert special Decimal128 value %q", d.String())
	}
	v, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse Decimal128 %q: %w", d.String(), err)
	}
	return v, nil
}

// ToDecimal128 converts an arithmetic decimal into its storage form,
// rounded half-up to two decimal places.
func ToDecimal128(v decimal.Decimal) (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(Round2(v).StringFixed(2))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to Decimal128: %w", v.String(), err)
	}
	return d, nil
}

// MustDecimal128 is ToDecimal128 for values known to be representable.
// It panics on failure and is intended for constants and tests.
func MustDecimal128(v decimal.Decimal) primitive.Decimal128 {
	d, err := ToDecimal128(v)
	if err != nil {
		panic(err)
	}
	return d
}

// MaxAmount caps any single client-supplied amount. Decimal128 holds far
// larger magnitudes, but capping at the boundary keeps every accepted amount
// and every sum of accepted amounts representable in storage.
var MaxAmount = decimal.New(1, 12)

// InRange reports whether v is acceptable as a ledger amount: |v| <= MaxAmount.
func InRange(v decimal.Decimal) bool {
	return v.Abs().LessThanOrEqual(MaxAmount)
}

// Parse parses a client-supplied amount string into an arithmetic decimal.
func Parse(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// Round2 applies the ledger's rounding policy: half-up, two decimal places.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// IsPaid reports whether paid covers amount within PaidTolerance.
func IsPaid(paid, amount decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(amount.Sub(PaidTolerance))
}

// DueOf returns the outstanding amount of a bill, floored at zero so that
// rounding artifacts never surface as negative dues.
func DueOf(amount, paid decimal.Decimal) decimal.Decimal {
	due := Round2(amount.Sub(paid))
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
