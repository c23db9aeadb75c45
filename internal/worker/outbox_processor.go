package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"washline_ledger/internal/conf"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/mq"
)

// OutboxProcessor polls the outbox collection and relays staged ledger
// events to the broker. Failed publishes are retried on the next poll.
type OutboxProcessor struct {
	outboxRepo repository.OutboxRepository
	publisher  mq.Publisher
	logger     *zap.Logger
	interval   time.Duration
	batchSize  int
}

func NewOutboxProcessor(outboxRepo repository.OutboxRepository, publisher mq.Publisher, logger *zap.Logger, cfg *conf.WorkerConfig) *OutboxProcessor {
	return &OutboxProcessor{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger.Named("OutboxProcessor"),
		interval:   time.Duration(cfg.Outbox.IntervalSeconds) * time.Second,
		batchSize:  cfg.Outbox.BatchSize,
	}
}

func (p *OutboxProcessor) Name() string { return "outbox-processor" }

// Start runs the polling loop until the context is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	p.logger.Info("Outbox processor started", zap.Duration("interval", p.interval), zap.Int("batchSize", p.batchSize))
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.processEvents(ctx)
		case <-ctx.Done():
			p.logger.Info("Outbox processor shutting down")
			return
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) {
	claimedEvents, err := p.outboxRepo.ClaimAndFetchEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to claim outbox events", zap.Error(err))
		return
	}

	if len(claimedEvents) > 0 {
		p.logger.Info("Claimed events for processing", zap.Int("count", len(claimedEvents)))
	}

	for _, event := range claimedEvents {
		if err := p.publisher.Publish(ctx, event.Topic, []byte(event.Payload)); err != nil {
			p.logger.Error("Failed to publish event",
				zap.String("event_id", event.ID.Hex()),
				zap.Error(err),
			)
			if err := p.outboxRepo.IncrementRetry(ctx, event.ID, err.Error()); err != nil {
				p.logger.Error("Failed to increment retry for event", zap.String("event_id", event.ID.Hex()), zap.Error(err))
			}
			continue
		}

		if err := p.outboxRepo.MarkAsProcessed(ctx, event.ID); err != nil {
			p.logger.Error("Failed to mark event as processed",
				zap.String("event_id", event.ID.Hex()),
				zap.Error(err),
			)
		}
	}
}

var _ Worker = (*OutboxProcessor)(nil)
