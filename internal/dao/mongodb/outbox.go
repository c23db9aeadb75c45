package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"washline_ledger/internal/conf"
	"washline_ledger/internal/models"
)

func NewOutboxDAO(client *mongo.Client, cfg *conf.MongodbConfig, logger *zap.Logger) *OutboxDAO {
	db := client.Database(cfg.DB)
	return &OutboxDAO{
		outboxCollection: db.Collection(CollectionOutbox),
		logger:           logger.Named("OutboxDAO"),
	}
}

type OutboxDAO struct {
	outboxCollection *mongo.Collection
	logger           *zap.Logger
}

func (d *OutboxDAO) Create(ctx context.Context, message *models.OutboxMessage) error {
	if _, err := d.outboxCollection.InsertOne(ctx, message); err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("topic", message.Topic))
		return err
	}
	return nil
}

// ClaimAndFetchEvents claims a batch of pending events in three phases:
// find candidate ids, flip them to PROCESSING under an optimistic lock,
// then fetch the documents tagged with this batch's claim id. Concurrent
// workers can race on the same candidates; the loser simply gets an empty
// batch.
func (d *OutboxDAO) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1})

	cursor, err := d.outboxCollection.Find(ctx, bson.M{"status": models.OutboxStatusPending}, findOptions)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: candidate Find failed", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var candidates []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &candidates); err != nil {
		d.logger.Error("ClaimAndFetchEvents: candidate decode failed", zap.Error(err))
		return nil, err
	}
	if len(candidates) == 0 {
		return []*models.OutboxMessage{}, nil
	}

	ids := make([]primitive.ObjectID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	claimID := primitive.NewObjectID()
	updateFilter := bson.M{
		"_id":    bson.M{"$in": ids},
		"status": models.OutboxStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.OutboxStatusProcessing,
			"claim_id":   claimID,
			"updated_at": time.Now(),
		},
	}
	updateResult, err := d.outboxCollection.UpdateMany(ctx, updateFilter, update)
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: claim UpdateMany failed", zap.Error(err))
		return nil, err
	}
	if updateResult.ModifiedCount == 0 {
		return []*models.OutboxMessage{}, nil
	}

	claimedCursor, err := d.outboxCollection.Find(ctx, bson.M{"claim_id": claimID})
	if err != nil {
		d.logger.Error("ClaimAndFetchEvents: claimed Find failed", zap.Error(err))
		return nil, err
	}

	var claimed []*models.OutboxMessage
	if err = claimedCursor.All(ctx, &claimed); err != nil {
		d.logger.Error("ClaimAndFetchEvents: claimed decode failed", zap.Error(err))
		return nil, err
	}
	return claimed, nil
}

func (d *OutboxDAO) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"status":       models.OutboxStatusProcessed,
			"processed_at": time.Now(),
		},
	}
	_, err := d.outboxCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// IncrementRetry resets a failed message to PENDING so the next poll picks
// it up again, keeping the last error for inspection.
func (d *OutboxDAO) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	update := bson.M{
		"$set": bson.M{
			"status": models.OutboxStatusPending,
			"error":  errorMessage,
		},
		"$inc": bson.M{"retries": 1},
	}
	_, err := d.outboxCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
