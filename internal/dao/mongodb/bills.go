package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"washline_ledger/internal/dao/fields"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/models"
)

func NewBillsDAO(db *mongo.Database, logger *zap.Logger) *BillsDAO {
	return &BillsDAO{
		billsCollection: db.Collection(CollectionBills),
		logger:          logger.Named("BillsDAO"),
	}
}

type BillsDAO struct {
	billsCollection *mongo.Collection
	logger          *zap.Logger
}

func (d *BillsDAO) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	res, err := d.billsCollection.InsertOne(ctx, bill)
	if err != nil {
		d.logger.Error("CreateBill: InsertOne failed", zap.Error(err), zap.Any("bill", bill))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// GetBillByID retrieves a single bill by its ID.
func (d *BillsDAO) GetBillByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	var bill models.Bill
	err := d.billsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&bill)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetBillByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &bill, nil
}

func (d *BillsDAO) GetBillsByClient(ctx context.Context, clientID primitive.ObjectID, limit, offset int) ([]*models.Bill, int64, error) {
	filter := bson.M{fields.FieldBillClient: clientID}

	total, err := d.billsCollection.CountDocuments(ctx, filter)
	if err != nil {
		d.logger.Error("GetBillsByClient: CountDocuments failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: fields.FieldBillDate, Value: -1}, {Key: fields.FieldObjectId, Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := d.billsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		d.logger.Error("GetBillsByClient: Find failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, 0, err
	}

	var bills []*models.Bill
	if err := cursor.All(ctx, &bills); err != nil {
		d.logger.Error("GetBillsByClient: cursor.All failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, 0, err
	}
	return bills, total, nil
}

// GetUnpaidBillsByClient returns unpaid bills oldest-first. Bulk payment
// distribution depends on this order, so it is fixed here and not an option.
func (d *BillsDAO) GetUnpaidBillsByClient(ctx context.Context, clientID primitive.ObjectID) ([]*models.Bill, error) {
	filter := bson.M{
		fields.FieldBillClient: clientID,
		fields.FieldBillIsPaid: false,
	}
	findOptions := options.Find().SetSort(bson.D{{Key: fields.FieldBillDate, Value: 1}, {Key: fields.FieldObjectId, Value: 1}})
	cursor, err := d.billsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		d.logger.Error("GetUnpaidBillsByClient: Find failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, err
	}

	var bills []*models.Bill
	if err := cursor.All(ctx, &bills); err != nil {
		d.logger.Error("GetUnpaidBillsByClient: cursor.All failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return nil, err
	}
	return bills, nil
}

func (d *BillsDAO) CountUnpaidBillsByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		fields.FieldBillClient: clientID,
		fields.FieldBillIsPaid: false,
	}
	count, err := d.billsCollection.CountDocuments(ctx, filter)
	if err != nil {
		d.logger.Error("CountUnpaidBillsByClient: CountDocuments failed", zap.Error(err), zap.Stringer("clientID", clientID))
		return 0, err
	}
	return count, nil
}

// UpdateBill updates a single bill using functional options. Note appends
// use $concat through an aggregation pipeline update so existing notes are
// preserved verbatim.
func (d *BillsDAO) UpdateBill(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	updateData := repository.NewUpdateOptions()
	for _, opt := range opts {
		opt(updateData)
	}

	if updateData.AppendNotes != "" {
		pipeline := mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				fields.FieldBillNotes: bson.M{"$concat": bson.A{
					bson.M{"$ifNull": bson.A{"$" + fields.FieldBillNotes, ""}},
					updateData.AppendNotes,
				}},
			}}},
		}
		if _, err := d.billsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, pipeline); err != nil {
			d.logger.Error("UpdateBill: note append failed", zap.Error(err), zap.Stringer("id", id))
			return err
		}
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

	res, err := d.billsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	if err != nil {
		d.logger.Error("UpdateBill: UpdateOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *BillsDAO) DeleteBill(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.billsCollection.DeleteOne(ctx, bson.M{fields.FieldObjectId: id})
	if err != nil {
		d.logger.Error("DeleteBill: DeleteOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SumBillsByDateRange aggregates billed/paid totals for reporting.
func (d *BillsDAO) SumBillsByDateRange(ctx context.Context, from, to time.Time) (*dto.RevenueTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			fields.FieldBillDate: bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{
			fields.FieldObjectId: nil,
			"billed":             bson.M{"$sum": "$" + fields.FieldBillAmount},
			"paid":               bson.M{"$sum": "$" + fields.FieldBillPaidAmount},
			"bills":              bson.M{"$sum": 1},
		}}},
	}
	cursor, err := d.billsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		d.logger.Error("SumBillsByDateRange: Aggregate failed", zap.Error(err))
		return nil, err
	}

	var rows []struct {
		Billed primitive.Decimal128 `bson:"billed"`
		Paid   primitive.Decimal128 `bson:"paid"`
		Bills  int64                `bson:"bills"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		d.logger.Error("SumBillsByDateRange: cursor.All failed", zap.Error(err))
		return nil, err
	}
	if len(rows) == 0 {
		zero, _ := primitive.ParseDecimal128("0.00")
		return &dto.RevenueTotals{Billed: zero, Paid: zero, Pending: zero}, nil
	}

	totals := &dto.RevenueTotals{
		Billed: rows[0].Billed,
		Paid:   rows[0].Paid,
		Bills:  rows[0].Bills,
	}
	return totals, nil
}
