package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"washline_ledger/internal/dao/fields"
	"washline_ledger/internal/models"
)

func NewPaymentsDAO(db *mongo.Database, logger *zap.Logger) *PaymentsDAO {
	return &PaymentsDAO{
		paymentsCollection: db.Collection(CollectionPayments),
		logger:             logger.Named("PaymentsDAO"),
	}
}

type PaymentsDAO struct {
	paymentsCollection *mongo.Collection
	logger             *zap.Logger
}

func (d *PaymentsDAO) CreatePayment(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	res, err := d.paymentsCollection.InsertOne(ctx, payment)
	if err != nil {
		d.logger.Error("CreatePayment: InsertOne failed", zap.Error(err), zap.Any("payment", payment))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *PaymentsDAO) GetPaymentsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldCreatedAt, Value: 1}})
	cursor, err := d.paymentsCollection.Find(ctx, bson.M{fields.FieldPaymentBill: billID}, findOptions)
	if err != nil {
		d.logger.Error("GetPaymentsByBill: Find failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		d.logger.Error("GetPaymentsByBill: cursor.All failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}
	return payments, nil
}

// DeletePaymentsByBill removes every payment recorded against a bill. Used
// by bill reversal after the matching transactions have been deleted.
func (d *PaymentsDAO) DeletePaymentsByBill(ctx context.Context, billID primitive.ObjectID) (int64, error) {
	res, err := d.paymentsCollection.DeleteMany(ctx, bson.M{fields.FieldPaymentBill: billID})
	if err != nil {
		d.logger.Error("DeletePaymentsByBill: DeleteMany failed", zap.Error(err), zap.Stringer("billID", billID))
		return 0, err
	}
	return res.DeletedCount, nil
}
