package logic

import "errors"

var (
	ErrInvalidAmount        = errors.New("amount must be a positive value")
	ErrInsufficientCredit   = errors.New("insufficient credit for deposit payment")
	ErrNothingToPay         = errors.New("client has no unpaid bills")
	ErrClientHasOutstanding = errors.New("client has unpaid bills or remaining prepaid credit")
	ErrBillWrongClient      = errors.New("bill belongs to a different client")
	ErrBillAlreadyPaid      = errors.New("bill is already fully paid")
	ErrOrderAlreadyRecorded = errors.New("order has already been recorded")
	ErrPermanent            = errors.New("a permanent error occurred that should not be retried")
)
