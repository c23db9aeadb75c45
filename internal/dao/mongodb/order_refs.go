package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"washline_ledger/internal/dao/fields"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/models"
)

func NewOrderRefsDAO(db *mongo.Database, logger *zap.Logger) *OrderRefsDAO {
	return &OrderRefsDAO{
		orderRefsCollection: db.Collection(CollectionOrderRefs),
		logger:              logger.Named("OrderRefsDAO"),
	}
}

// OrderRefsDAO persists the link between upstream order ids and the bills
// they are rolled into. The unique order_id index makes order consumption
// idempotent at the storage level.
type OrderRefsDAO struct {
	orderRefsCollection *mongo.Collection
	logger              *zap.Logger
}

func (d *OrderRefsDAO) CreateOrderRef(ctx context.Context, ref *models.OrderRef) (primitive.ObjectID, error) {
	res, err := d.orderRefsCollection.InsertOne(ctx, ref)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateOrderRef
		}
		d.logger.Error("CreateOrderRef: InsertOne failed", zap.Error(err), zap.Any("orderRef", ref))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *OrderRefsDAO) GetOrderRefByOrderID(ctx context.Context, orderID string) (*models.OrderRef, error) {
	var ref models.OrderRef
	err := d.orderRefsCollection.FindOne(ctx, bson.M{fields.FieldOrderRefOrderID: orderID}).Decode(&ref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetOrderRefByOrderID: FindOne failed", zap.Error(err), zap.String("orderID", orderID))
		return nil, err
	}
	return &ref, nil
}

func (d *OrderRefsDAO) GetOrderRefsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.OrderRef, error) {
	cursor, err := d.orderRefsCollection.Find(ctx, bson.M{fields.FieldOrderRefBill: billID})
	if err != nil {
		d.logger.Error("GetOrderRefsByBill: Find failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}

	var refs []*models.OrderRef
	if err := cursor.All(ctx, &refs); err != nil {
		d.logger.Error("GetOrderRefsByBill: cursor.All failed", zap.Error(err), zap.Stringer("billID", billID))
		return nil, err
	}
	return refs, nil
}

func (d *OrderRefsDAO) UpdateOrderRef(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	updateData := repository.NewUpdateOptions()
	for _, opt := range opts {
		opt(updateData)
	}

	update := bson.M{}
	if len(updateData.SetFields) > 0 {
		updateData.SetFields[fields.FieldUpdatedAt] = time.Now()
		update["$set"] = updateData.SetFields
	}
	if len(updateData.IncFields) > 0 {
		update["$inc"] = updateData.IncFields
	}
	if len(update) == 0 {
		return nil
	}

	res, err := d.orderRefsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	if err != nil {
		d.logger.Error("UpdateOrderRef: UpdateOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *OrderRefsDAO) DeleteOrderRef(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.orderRefsCollection.DeleteOne(ctx, bson.M{fields.FieldObjectId: id})
	if err != nil {
		d.logger.Error("DeleteOrderRef: DeleteOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
