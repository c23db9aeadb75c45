package logic

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/money"
)

// persistClientCache writes the derived totals back onto the client's cached
// fields. Call it inside the same transaction as the ledger mutation that
// made the cache stale.
func persistClientCache(ctx context.Context, clientsRepo repository.ClientsRepository, clientID primitive.ObjectID, totals *ClientTotals) error {
	if err := clientsRepo.UpdateClient(ctx, clientID,
		repository.WithAmount(money.MustDecimal128(totals.Billed)),
		repository.WithDeposit(money.MustDecimal128(totals.Credit)),
		repository.WithBalance(money.MustDecimal128(totals.Balance)),
	); err != nil {
		return fmt.Errorf("failed to reconcile client cache: %w", err)
	}
	return nil
}

// reloadClientTotals fetches the full stream and derives fresh totals. Used
// after mutations that delete transactions, where incremental math cannot be
// trusted.
func reloadClientTotals(ctx context.Context, transactionsRepo repository.TransactionsRepository, clientID primitive.ObjectID) (*ClientTotals, error) {
	transactions, err := transactionsRepo.GetTransactionsByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	return DerivedTotals(transactions)
}
