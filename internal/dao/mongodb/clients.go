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
	"washline_ledger/internal/models"
)

func NewClientsDAO(db *mongo.Database, logger *zap.Logger) *ClientsDAO {
	return &ClientsDAO{
		clientsCollection: db.Collection(CollectionClients),
		logger:            logger.Named("ClientsDAO"),
	}
}

type ClientsDAO struct {
	clientsCollection *mongo.Collection
	logger            *zap.Logger
}

func (d *ClientsDAO) CreateClient(ctx context.Context, client *models.Client) (primitive.ObjectID, error) {
	res, err := d.clientsCollection.InsertOne(ctx, client)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicatePhone
		}
		d.logger.Error("CreateClient: InsertOne failed", zap.Error(err), zap.Any("client", client))
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (d *ClientsDAO) GetClientByID(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	var client models.Client
	err := d.clientsCollection.FindOne(ctx, bson.M{fields.FieldObjectId: id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetClientByID: FindOne failed", zap.Error(err), zap.Stringer("id", id))
		return nil, err
	}
	return &client, nil
}

func (d *ClientsDAO) GetClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	var client models.Client
	err := d.clientsCollection.FindOne(ctx, bson.M{fields.FieldClientPhone: phone}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		d.logger.Error("GetClientByPhone: FindOne failed", zap.Error(err), zap.String("phone", phone))
		return nil, err
	}
	return &client, nil
}

// UpdateClient updates a single client using functional options.
func (d *ClientsDAO) UpdateClient(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
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
		return nil // Nothing to do.
	}

	res, err := d.clientsCollection.UpdateOne(ctx, bson.M{fields.FieldObjectId: id}, update)
	if err != nil {
		d.logger.Error("UpdateClient: UpdateOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *ClientsDAO) DeleteClient(ctx context.Context, id primitive.ObjectID) error {
	res, err := d.clientsCollection.DeleteOne(ctx, bson.M{fields.FieldObjectId: id})
	if err != nil {
		d.logger.Error("DeleteClient: DeleteOne failed", zap.Error(err), zap.Stringer("id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *ClientsDAO) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, int64, error) {
	total, err := d.clientsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		d.logger.Error("ListClients: CountDocuments failed", zap.Error(err))
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: fields.FieldClientName, Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := d.clientsCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		d.logger.Error("ListClients: Find failed", zap.Error(err))
		return nil, 0, err
	}

	var clients []*models.Client
	if err := cursor.All(ctx, &clients); err != nil {
		d.logger.Error("ListClients: cursor.All failed", zap.Error(err))
		return nil, 0, err
	}
	return clients, total, nil
}
