package logic

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"washline_ledger/internal/money"
)

// ExportTransactions renders a client's full transaction history as CSV,
// with the running balance of the requested projection in the last column.
// It returns the suggested filename together with the file contents.
func (l *ClientLogic) ExportTransactions(ctx context.Context, clientID primitive.ObjectID, view LedgerView) (string, []byte, error) {
	client, err := l.clientsRepo.GetClientByID(ctx, clientID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get client: %w", err)
	}

	points, err := l.Ledger(ctx, clientID, view)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"date", "type", "amount", "payment_method", "bill_id", "description", "running_balance"}
	if err := writer.Write(header); err != nil {
		return "", nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range points {
		tx := p.Transaction
		amount, err := money.FromDecimal128(tx.Amount)
		if err != nil {
			return "", nil, fmt.Errorf("transaction %s has invalid amount: %w", tx.ID.Hex(), err)
		}
		billID := ""
		if tx.Bill != nil {
			billID = tx.Bill.Hex()
		}
		record := []string{
			tx.Date.Format(time.RFC3339),
			tx.Type,
			amount.StringFixed(2),
			tx.PaymentMethod,
			billID,
			tx.Description,
			p.Balance.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return "", nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("transactions_%s_%s_%s.csv", client.ID.Hex(), view, time.Now().Format("20060102"))
	return filename, buf.Bytes(), nil
}
