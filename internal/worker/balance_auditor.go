package worker

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"washline_ledger/internal/conf"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
)

// BalanceAuditor periodically replays each client's transaction stream and
// compares the derived totals against the cached client fields. It is
// strictly read-only: request handlers are the only ledger writers, so the
// auditor reports drift instead of repairing it.
type BalanceAuditor struct {
	clientsRepo      repository.ClientsRepository
	transactionsRepo repository.TransactionsRepository
	logger           *zap.Logger
	interval         time.Duration
	batchSize        int
}

func NewBalanceAuditor(clientsRepo repository.ClientsRepository, transactionsRepo repository.TransactionsRepository, logger *zap.Logger, cfg *conf.WorkerConfig) *BalanceAuditor {
	return &BalanceAuditor{
		clientsRepo:      clientsRepo,
		transactionsRepo: transactionsRepo,
		logger:           logger.Named("BalanceAuditor"),
		interval:         time.Duration(cfg.BalanceAuditor.IntervalSeconds) * time.Second,
		batchSize:        cfg.BalanceAuditor.BatchSize,
	}
}

func (w *BalanceAuditor) Name() string { return "balance-auditor" }

// Start runs the audit loop until the context is cancelled.
func (w *BalanceAuditor) Start(ctx context.Context) {
	w.logger.Info("Balance auditor started", zap.Duration("interval", w.interval), zap.Int("batchSize", w.batchSize))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runAudit(ctx)
		case <-ctx.Done():
			w.logger.Info("Balance auditor shutting down")
			return
		}
	}
}

func (w *BalanceAuditor) runAudit(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in balance audit",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()

	offset := 0
	for {
		clients, _, err := w.clientsRepo.ListClients(ctx, w.batchSize, offset)
		if err != nil {
			w.logger.Error("Failed to list clients for audit", zap.Error(err))
			return
		}
		if len(clients) == 0 {
			return
		}

		for _, client := range clients {
			w.auditClient(ctx, client)
		}
		offset += len(clients)
	}
}

func (w *BalanceAuditor) auditClient(ctx context.Context, client *models.Client) {
	transactions, err := w.transactionsRepo.GetTransactionsByClient(ctx, client.ID)
	if err != nil {
		w.logger.Error("Failed to load transactions for audit", zap.Error(err), zap.Stringer("clientID", client.ID))
		return
	}
	derived, err := logic.DerivedTotals(transactions)
	if err != nil {
		w.logger.Error("Failed to derive totals for audit", zap.Error(err), zap.Stringer("clientID", client.ID))
		return
	}

	cachedAmount, err := money.FromDecimal128(client.Amount)
	if err != nil {
		w.logger.Error("Cached amount is unreadable", zap.Error(err), zap.Stringer("clientID", client.ID))
		return
	}
	cachedDeposit, err := money.FromDecimal128(client.Deposit)
	if err != nil {
		w.logger.Error("Cached deposit is unreadable", zap.Error(err), zap.Stringer("clientID", client.ID))
		return
	}
	cachedBalance, err := money.FromDecimal128(client.Balance)
	if err != nil {
		w.logger.Error("Cached balance is unreadable", zap.Error(err), zap.Stringer("clientID", client.ID))
		return
	}

	if !cachedAmount.Equal(derived.Billed) || !cachedDeposit.Equal(derived.Credit) || !cachedBalance.Equal(derived.Balance) {
		w.logger.Warn("Client cache drifted from transaction stream",
			zap.Stringer("clientID", client.ID),
			zap.String("cached_amount", cachedAmount.String()),
			zap.String("derived_amount", derived.Billed.String()),
			zap.String("cached_deposit", cachedDeposit.String()),
			zap.String("derived_deposit", derived.Credit.String()),
			zap.String("cached_balance", cachedBalance.String()),
			zap.String("derived_balance", derived.Balance.String()),
		)
	}
}

var _ Worker = (*BalanceAuditor)(nil)
