package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/dao/fields"
)

// UpdateOptions is an exported struct that holds the fields for a MongoDB
// update operation. It is used with the Functional Options pattern.
type UpdateOptions struct {
	SetFields bson.M
	IncFields bson.M
	// AppendNotes is applied as a string concatenation in the DAO; existing
	// note content is never replaced.
	AppendNotes string
}

// NewUpdateOptions creates a new instance of UpdateOptions.
func NewUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		SetFields: bson.M{},
		IncFields: bson.M{},
	}
}

// UpdateOption defines a function that can modify the UpdateOptions.
type UpdateOption func(*UpdateOptions)

// WithAmount sets the cached lifetime-billed total on a client.
func WithAmount(amount primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldClientAmount] = amount
	}
}

// WithDeposit sets the cached credit balance on a client.
func WithDeposit(deposit primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldClientDeposit] = deposit
	}
}

// WithBalance sets the cached derived balance on a client.
func WithBalance(balance primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldClientBalance] = balance
	}
}

// WithBillAmount sets a bill's total owed amount.
func WithBillAmount(amount primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillAmount] = amount
	}
}

// WithPaidAmount sets a bill's cumulative paid amount.
func WithPaidAmount(paid primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillPaidAmount] = paid
	}
}

// WithIsPaid sets a bill's derived paid flag.
func WithIsPaid(isPaid bool) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillIsPaid] = isPaid
	}
}

// WithDescription sets a bill's description.
func WithDescription(description string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillDescription] = description
	}
}

// WithAppendedNote appends an audit note to a bill's notes field without
// touching earlier entries.
func WithAppendedNote(note string) UpdateOption {
	return func(o *UpdateOptions) {
		o.AppendNotes = note
	}
}

// WithFinalAmount sets the mirrored final amount on an order ref.
func WithFinalAmount(amount primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldOrderRefFinalAmount] = amount
	}
}

// WithName sets a client's display name.
func WithName(name string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldClientName] = name
	}
}

// WithPhone sets a client's unique phone number.
func WithPhone(phone string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldClientPhone] = phone
	}
}

// WithAddress sets a client's address.
func WithAddress(address string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldClientAddress] = address
	}
}

// WithUpdatedAt sets the updated_at field.
func WithUpdatedAt(t time.Time) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldUpdatedAt] = t
	}
}
