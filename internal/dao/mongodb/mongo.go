package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"washline_ledger/internal/conf"
	"washline_ledger/internal/dao/fields"
)

// NewMongoDB connects to MongoDB and ensures the indexes the ledger relies on.
// It returns the client plus a cleanup function for graceful shutdown.
func NewMongoDB(cfg *conf.MongodbConfig) (*mongo.Client, func(), error) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	if cfg.User == "" {
		uri = fmt.Sprintf("mongodb://%s:%d", cfg.Host, cfg.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if err := ensureIndexes(ctx, client.Database(cfg.DB)); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}

	return client, cleanup, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	// Phone numbers identify clients at the counter; the unique index is what
	// turns a duplicate registration into ErrDuplicatePhone.
	_, err := db.Collection(CollectionClients).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: fields.FieldClientPhone, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create clients phone index: %w", err)
	}

	indexes := map[string]mongo.IndexModel{
		CollectionBills: {
			Keys: bson.D{{Key: fields.FieldBillClient, Value: 1}, {Key: fields.FieldBillDate, Value: 1}},
		},
		CollectionTransactions: {
			Keys: bson.D{{Key: fields.FieldTransactionClient, Value: 1}, {Key: fields.FieldTransactionDate, Value: 1}, {Key: fields.FieldObjectId, Value: 1}},
		},
		CollectionPayments: {
			Keys: bson.D{{Key: fields.FieldPaymentBill, Value: 1}},
		},
		CollectionOrderRefs: {
			Keys:    bson.D{{Key: fields.FieldOrderRefOrderID, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create %s index: %w", coll, err)
		}
	}
	return nil
}
