package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"washline_ledger/internal/dao/fields"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/models"
)

func NewTransactionsDAO(db *mongo.Database, logger *zap.Logger) *TransactionsDAO {
	return &TransactionsDAO{
		transactionsCollection: db.Collection(CollectionTransactions),
		logger:                 logger.Named("TransactionsDAO"),
	}
}

type TransactionsDAO struct {
	transactionsCollection *mongo.Collection
	logger                 *zap.Logger
}

func (d *TransactionsDAO) CreateTransaction(ctx context.Context, tx *models.Transaction) (primitive.ObjectID, error) {
	res, err := d.transactionsCollection.InsertOne(ctx, tx)
	if err != nil {
		d.logger.Error("CreateTransaction: InsertOne failed", zap.Error(err), zap.Any("transaction", tx))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetTransactionsByClient returns the full history in chronological order.
// Running balance projections replay the stream, so the sort must be stable:
// date ascending with id as tiebreaker.
func (d *TransactionsDAO) GetTransactionsByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Transaction, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: fields.FieldTransactionDate, Value: 1},
		{Key: fields.FieldObjectId, Value: 1},
	})
	cursor, err := d.transactionsCollection.Find(ctx, bson.M{fields.FieldTransactionClient: clientID}, findOptions)
	if err != nil {
		d.logger.Error("GetTransactionsByClient: Find failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, err
	}

	var transactions []*models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		d.logger.Error("GetTransactionsByClient: cursor.All failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, err
	}
	return transactions, nil
}

// GetTransactionsByClientPage pages through a client's history newest-first
// with a (date, id) cursor. Export uses it to stream without a growing skip.
func (d *TransactionsDAO) GetTransactionsByClientPage(ctx context.Context, params *repository.GetTransactionsPageParams) ([]*models.Transaction, error) {
	filter := bson.M{fields.FieldTransactionClient: params.ClientID}
	if params.CursorDate != nil {
		filter["$or"] = bson.A{
			bson.M{fields.FieldTransactionDate: bson.M{"$lt": *params.CursorDate}},
			bson.M{
				fields.FieldTransactionDate: *params.CursorDate,
				fields.FieldObjectId:        bson.M{"$lt": params.CursorID},
			},
		}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: fields.FieldTransactionDate, Value: -1}, {Key: fields.FieldObjectId, Value: -1}}).
		SetLimit(int64(params.Limit))
	cursor, err := d.transactionsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		d.logger.Error("GetTransactionsByClientPage: Find failed", zap.Error(err), zap.Stringer("clientID", params.ClientID))
		return nil, err
	}

	var transactions []*models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		d.logger.Error("GetTransactionsByClientPage: cursor.All failed", zap.Error(err), zap.Stringer("clientID", params.ClientID))
		return nil, err
	}
	return transactions, nil
}

func (d *TransactionsDAO) DeleteTransactionsByBill(ctx context.Context, billID primitive.ObjectID) (int64, error) {
	res, err := d.transactionsCollection.DeleteMany(ctx, bson.M{fields.FieldTransactionBill: billID})
	if err != nil {
		d.logger.Error("DeleteTransactionsByBill: DeleteMany failed", zap.Error(err), zap.Stringer("billID", billID))
		return 0, err
	}
	return res.DeletedCount, nil
}

func (d *TransactionsDAO) DeleteTransactionsByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	res, err := d.transactionsCollection.DeleteMany(ctx, bson.M{fields.FieldTransactionClient: clientID})
	if err != nil {
		d.logger.Error("DeleteTransactionsByClient: DeleteMany failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return 0, err
	}
	return res.DeletedCount, nil
}
