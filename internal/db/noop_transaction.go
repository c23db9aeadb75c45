package db

import "context"

// NoOpTransactionManager executes the callback directly. Standalone Mongo
// instances without a replica set cannot open transactions, so dev and test
// setups swap this in via configuration.
type NoOpTransactionManager struct{}

func NewNoOpTransactionManager() TransactionManager {
	return &NoOpTransactionManager{}
}

func (n *NoOpTransactionManager) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}
