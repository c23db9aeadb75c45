package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTransactionManager runs callbacks inside real multi-document
// transactions. Every ledger mutation that touches more than one
// collection goes through it.
type MongoTransactionManager struct {
	client *mongo.Client
}

func NewMongoTransactionManager(client *mongo.Client) TransactionManager {
	return &MongoTransactionManager{client: client}
}

func (m *MongoTransactionManager) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	session, err := m.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	// mongo.SessionContext satisfies context.Context, so the wrapper keeps
	// the interface free of driver types.
	callback := func(sessCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessCtx)
	}

	return session.WithTransaction(ctx, callback)
}
