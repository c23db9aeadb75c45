package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"washline_ledger/internal/models"
)

func NewAuditLogDAO(db *mongo.Database, logger *zap.Logger) *AuditLogDAO {
	return &AuditLogDAO{
		collection: db.Collection(CollectionAuditLogs),
		logger:     logger.Named("AuditLogDAO"),
	}
}

type AuditLogDAO struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// Create writes an audit entry. Failures are logged and swallowed so a
// broken audit trail never blocks a payment or reversal.
func (d *AuditLogDAO) Create(ctx context.Context, log *models.AuditLog) error {
	if _, err := d.collection.InsertOne(ctx, log); err != nil {
		d.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("action", log.Action))
	}
	return nil
}
