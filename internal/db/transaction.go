package db

import "context"

// TransactionManager abstracts running a function inside a storage
// transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error)
}
