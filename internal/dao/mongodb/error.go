package mongodb

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicatePhone    = errors.New("phone number already registered")
	ErrDuplicateOrderRef = errors.New("order already recorded")
)
