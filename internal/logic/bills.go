package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/dao/mongodb"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/db"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
	"washline_ledger/pkg/snowflake"
)

// BillLogic owns the bill lifecycle driven by the external order subsystem:
// opening or growing bills when orders are finalized, recomputing amounts
// when order items change, and reversing a bill's financial effects when its
// source order is deleted.
type BillLogic struct {
	tm               db.TransactionManager
	clientsRepo      repository.ClientsRepository
	billsRepo        repository.BillsRepository
	paymentsRepo     repository.PaymentsRepository
	transactionsRepo repository.TransactionsRepository
	orderRefsRepo    repository.OrderRefsRepository
	auditLogRepo     repository.AuditLogRepository
	eventPublisher   *LedgerEventPublisher
	idGenerator      *snowflake.Generator
	logger           *zap.Logger
}

func NewBillLogic(
	tm db.TransactionManager,
	clientsRepo repository.ClientsRepository,
	billsRepo repository.BillsRepository,
	paymentsRepo repository.PaymentsRepository,
	transactionsRepo repository.TransactionsRepository,
	orderRefsRepo repository.OrderRefsRepository,
	auditLogRepo repository.AuditLogRepository,
	eventPublisher *LedgerEventPublisher,
	idGenerator *snowflake.Generator,
	logger *zap.Logger,
) *BillLogic {
	return &BillLogic{
		tm:               tm,
		clientsRepo:      clientsRepo,
		billsRepo:        billsRepo,
		paymentsRepo:     paymentsRepo,
		transactionsRepo: transactionsRepo,
		orderRefsRepo:    orderRefsRepo,
		auditLogRepo:     auditLogRepo,
		eventPublisher:   eventPublisher,
		idGenerator:      idGenerator,
		logger:           logger.Named("BillLogic"),
	}
}

// ComputeOrderTotal prices an edited order item list. A positive variant
// price overrides the unit price; the urgent multiplier scales the subtotal.
func ComputeOrderTotal(items []dto.OrderItemInput, urgentMultiplier decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		price := item.UnitPrice
		if item.VariantPrice.IsPositive() {
			price = item.VariantPrice
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	if urgentMultiplier.IsPositive() {
		subtotal = subtotal.Mul(urgentMultiplier)
	}
	return money.Round2(subtotal)
}

// CreateFromOrder opens a new bill for a finalized order, or grows an
// explicitly chosen unpaid bill of the same client. Replayed order ids are
// answered with the already-linked bill so the consumer stays idempotent.
func (l *BillLogic) CreateFromOrder(ctx context.Context, d *dto.OrderCreatedRequest) (primitive.ObjectID, error) {
	if !d.GetFinalAmount().IsPositive() || !money.InRange(d.GetFinalAmount()) {
		return primitive.NilObjectID, ErrInvalidAmount
	}

	result, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return l.createFromOrder(sessCtx, d)
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.(primitive.ObjectID), nil
}

func (l *BillLogic) createFromOrder(ctx context.Context, d *dto.OrderCreatedRequest) (primitive.ObjectID, error) {
	existing, err := l.orderRefsRepo.GetOrderRefByOrderID(ctx, d.GetOrderID())
	if err == nil {
		l.logger.Warn("createFromOrder: order already recorded, skipping",
			zap.String("orderID", d.GetOrderID()), zap.Stringer("billID", existing.Bill))
		return existing.Bill, nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return primitive.NilObjectID, fmt.Errorf("failed to check order ref: %w", err)
	}

	client, err := l.clientsRepo.GetClientByID(ctx, d.GetClientID())
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to get client: %w", err)
	}

	amount := money.Round2(d.GetFinalAmount())
	now := time.Now()

	var billID primitive.ObjectID
	if attachID := d.GetAttachBillID(); attachID != nil {
		bill, err := l.billsRepo.GetBillByID(ctx, *attachID)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("failed to get bill to attach: %w", err)
		}
		if bill.Client != client.ID {
			return primitive.NilObjectID, fmt.Errorf("bill %s: %w", bill.ID.Hex(), ErrBillWrongClient)
		}
		if bill.IsPaid {
			return primitive.NilObjectID, fmt.Errorf("bill %s: %w", bill.ID.Hex(), ErrBillAlreadyPaid)
		}

		oldAmount, err := money.FromDecimal128(bill.Amount)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("bill %s has invalid amount: %w", bill.ID.Hex(), err)
		}
		paid, err := money.FromDecimal128(bill.PaidAmount)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("bill %s has invalid paid amount: %w", bill.ID.Hex(), err)
		}
		newAmount := money.Round2(oldAmount.Add(amount))

		description := bill.Description
		if d.GetDescription() != "" {
			if description != "" {
				description += "; "
			}
			description += d.GetDescription()
		}
		if err := l.billsRepo.UpdateBill(ctx, bill.ID,
			repository.WithBillAmount(money.MustDecimal128(newAmount)),
			repository.WithIsPaid(money.IsPaid(paid, newAmount)),
			repository.WithDescription(description),
		); err != nil {
			return primitive.NilObjectID, fmt.Errorf("failed to grow bill: %w", err)
		}
		billID = bill.ID
	} else {
		refNumber, err := l.idGenerator.NextReference("B")
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("failed to generate reference number: %w", err)
		}
		bill := &models.Bill{
			ID:              primitive.NewObjectID(),
			Client:          client.ID,
			Amount:          money.MustDecimal128(amount),
			PaidAmount:      money.MustDecimal128(decimal.Zero),
			IsPaid:          false,
			Description:     d.GetDescription(),
			ReferenceNumber: refNumber,
			BillDate:        now,
			CreatedBy:       d.GetOperator(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		billID, err = l.billsRepo.CreateBill(ctx, bill)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("failed to create bill: %w", err)
		}

		if err := l.auditLogRepo.Create(ctx, buildCreateBillAuditLog(d.GetOperator(), bill)); err != nil {
			l.logger.Error("createFromOrder: failed to create audit log", zap.Error(err))
		}
	}

	ref := &models.OrderRef{
		ID:          primitive.NewObjectID(),
		OrderID:     d.GetOrderID(),
		Client:      client.ID,
		Bill:        billID,
		FinalAmount: money.MustDecimal128(amount),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := l.orderRefsRepo.CreateOrderRef(ctx, ref); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create order ref: %w", err)
	}

	if err := l.appendBillTransaction(ctx, client.ID, billID, amount, d.GetDescription(), now); err != nil {
		return primitive.NilObjectID, err
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventBillCreated,
		ClientID: client.ID.Hex(),
		BillID:   billID.Hex(),
		Amount:   amount.StringFixed(2),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("createFromOrder: failed to publish ledger event", zap.Error(err), zap.Stringer("billID", billID))
		return primitive.NilObjectID, err
	}

	return billID, nil
}

// RecalculateForOrder reprices an order whose items changed and propagates
// the new total to the linked bill. The bill's paid amount is never touched
// here; only the owed amount moves, so a fully paid bill can re-open and an
// overpaid one stays paid. The old amount is preserved in an append-only
// note on the bill.
func (l *BillLogic) RecalculateForOrder(ctx context.Context, d *dto.OrderItemsChangedRequest) error {
	newFinal := ComputeOrderTotal(d.GetItems(), d.GetUrgentMultiplier())
	if newFinal.IsNegative() || !money.InRange(newFinal) {
		return ErrInvalidAmount
	}

	_, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return nil, l.recalculateForOrder(sessCtx, d, newFinal)
	})
	return err
}

func (l *BillLogic) recalculateForOrder(ctx context.Context, d *dto.OrderItemsChangedRequest, newFinal decimal.Decimal) error {
	ref, err := l.orderRefsRepo.GetOrderRefByOrderID(ctx, d.GetOrderID())
	if err != nil {
		return fmt.Errorf("failed to get order ref: %w", err)
	}

	if err := l.orderRefsRepo.UpdateOrderRef(ctx, ref.ID,
		repository.WithFinalAmount(money.MustDecimal128(newFinal)),
	); err != nil {
		return fmt.Errorf("failed to update order ref: %w", err)
	}

	// The bill's new total is the sum of the current final amounts of every
	// order attached to it, not old total plus delta. Recomputing from
	// source makes the operation idempotent.
	refs, err := l.orderRefsRepo.GetOrderRefsByBill(ctx, ref.Bill)
	if err != nil {
		return fmt.Errorf("failed to get order refs for bill: %w", err)
	}
	newTotal := decimal.Zero
	for _, r := range refs {
		final, err := money.FromDecimal128(r.FinalAmount)
		if err != nil {
			return fmt.Errorf("order ref %s has invalid final amount: %w", r.ID.Hex(), err)
		}
		newTotal = newTotal.Add(final)
	}
	newTotal = money.Round2(newTotal)

	bill, err := l.billsRepo.GetBillByID(ctx, ref.Bill)
	if err != nil {
		return fmt.Errorf("failed to get bill: %w", err)
	}
	oldAmount, err := money.FromDecimal128(bill.Amount)
	if err != nil {
		return fmt.Errorf("bill %s has invalid amount: %w", bill.ID.Hex(), err)
	}
	paid, err := money.FromDecimal128(bill.PaidAmount)
	if err != nil {
		return fmt.Errorf("bill %s has invalid paid amount: %w", bill.ID.Hex(), err)
	}

	if newTotal.Equal(oldAmount) {
		return nil
	}

	now := time.Now()
	note := fmt.Sprintf("\n[%s] amount changed from %s to %s by %s",
		now.Format(time.RFC3339), oldAmount.StringFixed(2), newTotal.StringFixed(2), d.GetOperator().Name)
	if err := l.billsRepo.UpdateBill(ctx, bill.ID,
		repository.WithBillAmount(money.MustDecimal128(newTotal)),
		repository.WithIsPaid(money.IsPaid(paid, newTotal)),
		repository.WithAppendedNote(note),
	); err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	// The delta lands in the transaction log so the billed total derived
	// from the stream keeps matching the bills.
	delta := money.Round2(newTotal.Sub(oldAmount))
	if err := l.appendBillTransaction(ctx, bill.Client, bill.ID, delta,
		fmt.Sprintf("amount adjustment for order %s", d.GetOrderID()), now); err != nil {
		return err
	}

	if err := l.auditLogRepo.Create(ctx, buildRecomputeBillAuditLog(d.GetOperator(), bill.ID,
		oldAmount.StringFixed(2), newTotal.StringFixed(2),
		fmt.Sprintf("items changed on order %s", d.GetOrderID()))); err != nil {
		l.logger.Error("recalculateForOrder: failed to create audit log", zap.Error(err))
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventBillUpdated,
		ClientID: bill.Client.Hex(),
		BillID:   bill.ID.Hex(),
		Amount:   newTotal.StringFixed(2),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("recalculateForOrder: failed to publish ledger event", zap.Error(err), zap.Stringer("billID", bill.ID))
		return err
	}

	return nil
}

// ReverseForOrder undoes a bill's financial effects after its source order
// is deleted. Credit consumed by deposit payments is restored to the client
// before any record of spending it is removed, so a partial failure leaves
// an auditable state rather than missing money. A bill still funded by other
// orders is not reversed; the deleted order's share is detached instead.
func (l *BillLogic) ReverseForOrder(ctx context.Context, d *dto.OrderDeletedRequest) error {
	_, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return nil, l.reverseForOrder(sessCtx, d)
	})
	return err
}

func (l *BillLogic) reverseForOrder(ctx context.Context, d *dto.OrderDeletedRequest) error {
	ref, err := l.orderRefsRepo.GetOrderRefByOrderID(ctx, d.GetOrderID())
	if err != nil {
		return fmt.Errorf("failed to get order ref: %w", err)
	}

	bill, err := l.billsRepo.GetBillByID(ctx, ref.Bill)
	if err != nil {
		return fmt.Errorf("failed to get bill: %w", err)
	}

	refs, err := l.orderRefsRepo.GetOrderRefsByBill(ctx, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get order refs for bill: %w", err)
	}
	// A bill funded by several orders is not reversed wholesale when one of
	// them goes away; only the deleted order's share leaves the bill.
	if len(refs) > 1 {
		return l.detachOrderFromBill(ctx, d, ref, bill, refs)
	}

	payments, err := l.paymentsRepo.GetPaymentsByBill(ctx, bill.ID)
	if err != nil {
		return fmt.Errorf("failed to get payments: %w", err)
	}
	// recredit is everything the client paid from prepaid credit and must get
	// back. bulkShare is the part of it that was consumed through a
	// consolidated bulk entry: that entry carries no bill reference, survives
	// the per-bill deletion below, and therefore needs a compensating deposit
	// entry to keep the stream-derived credit correct.
	recredit := decimal.Zero
	bulkShare := decimal.Zero
	for _, p := range payments {
		method, ok := constants.ParsePaymentMethod(p.PaymentMethod)
		if !ok {
			return fmt.Errorf("payment %s has unknown method %q", p.ID.Hex(), p.PaymentMethod)
		}
		if !method.UsesDeposit() {
			continue
		}
		amount, err := money.FromDecimal128(p.Amount)
		if err != nil {
			return fmt.Errorf("payment %s has invalid amount: %w", p.ID.Hex(), err)
		}
		recredit = recredit.Add(amount)
		if method == constants.PaymentMethodBulkDeposit {
			bulkShare = bulkShare.Add(amount)
		}
	}
	recredit = money.Round2(recredit)
	bulkShare = money.Round2(bulkShare)

	// Step order is deliberate: restore credit on the cached fields first,
	// then delete transactions, payments, and finally the bill. Failing
	// early leaves the spending records intact for audit.
	if !recredit.IsZero() {
		client, err := l.clientsRepo.GetClientByID(ctx, bill.Client)
		if err != nil {
			return fmt.Errorf("failed to get client: %w", err)
		}
		deposit, err := money.FromDecimal128(client.Deposit)
		if err != nil {
			return fmt.Errorf("client %s has invalid deposit: %w", client.ID.Hex(), err)
		}
		amount, err := money.FromDecimal128(client.Amount)
		if err != nil {
			return fmt.Errorf("client %s has invalid amount: %w", client.ID.Hex(), err)
		}
		newDeposit := money.Round2(deposit.Add(recredit))
		if err := l.clientsRepo.UpdateClient(ctx, client.ID,
			repository.WithDeposit(money.MustDecimal128(newDeposit)),
			repository.WithBalance(money.MustDecimal128(money.Round2(amount.Sub(newDeposit)))),
		); err != nil {
			return fmt.Errorf("failed to restore client credit: %w", err)
		}
	}

	if _, err := l.transactionsRepo.DeleteTransactionsByBill(ctx, bill.ID); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if _, err := l.paymentsRepo.DeletePaymentsByBill(ctx, bill.ID); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	for _, r := range refs {
		if err := l.orderRefsRepo.DeleteOrderRef(ctx, r.ID); err != nil {
			return fmt.Errorf("failed to delete order ref %s: %w", r.ID.Hex(), err)
		}
	}
	if err := l.billsRepo.DeleteBill(ctx, bill.ID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	// The consolidated bulk entry that consumed bulkShare is still in the
	// stream, tied to no bill. Compensate with a deposit entry so replaying
	// the stream yields the restored credit.
	if !bulkShare.IsZero() {
		if err := l.appendCreditRestoredTransaction(ctx, bill, bulkShare); err != nil {
			return err
		}
	}

	// Transactions were deleted, so the cache must be re-derived from what
	// is left of the stream.
	totals, err := reloadClientTotals(ctx, l.transactionsRepo, bill.Client)
	if err != nil {
		return err
	}
	if err := persistClientCache(ctx, l.clientsRepo, bill.Client, totals); err != nil {
		return err
	}

	if err := l.auditLogRepo.Create(ctx, buildReverseBillAuditLog(d.GetOperator(), bill, recredit.StringFixed(2))); err != nil {
		l.logger.Error("reverseForOrder: failed to create audit log", zap.Error(err))
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventBillReversed,
		ClientID: bill.Client.Hex(),
		BillID:   bill.ID.Hex(),
		Amount:   recredit.StringFixed(2),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("reverseForOrder: failed to publish ledger event", zap.Error(err), zap.Stringer("billID", bill.ID))
		return err
	}

	return nil
}

// appendCreditRestoredTransaction re-credits the share of a reversed bill
// that was paid through a consolidated bulk entry.
func (l *BillLogic) appendCreditRestoredTransaction(ctx context.Context, bill *models.Bill, amount decimal.Decimal) error {
	transactions, err := l.transactionsRepo.GetTransactionsByClient(ctx, bill.Client)
	if err != nil {
		return fmt.Errorf("failed to load transaction history: %w", err)
	}
	totals, err := DerivedTotals(transactions)
	if err != nil {
		return err
	}
	totals.Credit = money.Round2(totals.Credit.Add(amount))
	totals.Balance = money.Round2(totals.Billed.Sub(totals.Credit))

	now := time.Now()
	entry := &models.Transaction{
		ID:             primitive.NewObjectID(),
		Client:         bill.Client,
		Type:           constants.TransactionTypeDeposit.String(),
		Amount:         money.MustDecimal128(amount),
		Description:    fmt.Sprintf("credit restored for reversed bill %s", bill.ReferenceNumber),
		RunningBalance: money.MustDecimal128(totals.Balance),
		Date:           now,
		CreatedAt:      now,
	}
	if _, err := l.transactionsRepo.CreateTransaction(ctx, entry); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// detachOrderFromBill removes one deleted order's share from a bill that
// other orders still fund. The bill and its payments survive; only the owed
// amount shrinks, mirroring how an item edit moves it.
func (l *BillLogic) detachOrderFromBill(ctx context.Context, d *dto.OrderDeletedRequest, ref *models.OrderRef, bill *models.Bill, refs []*models.OrderRef) error {
	if err := l.orderRefsRepo.DeleteOrderRef(ctx, ref.ID); err != nil {
		return fmt.Errorf("failed to delete order ref %s: %w", ref.ID.Hex(), err)
	}

	newTotal := decimal.Zero
	for _, r := range refs {
		if r.ID == ref.ID {
			continue
		}
		final, err := money.FromDecimal128(r.FinalAmount)
		if err != nil {
			return fmt.Errorf("order ref %s has invalid final amount: %w", r.ID.Hex(), err)
		}
		newTotal = newTotal.Add(final)
	}
	newTotal = money.Round2(newTotal)

	oldAmount, err := money.FromDecimal128(bill.Amount)
	if err != nil {
		return fmt.Errorf("bill %s has invalid amount: %w", bill.ID.Hex(), err)
	}
	paid, err := money.FromDecimal128(bill.PaidAmount)
	if err != nil {
		return fmt.Errorf("bill %s has invalid paid amount: %w", bill.ID.Hex(), err)
	}
	if newTotal.Equal(oldAmount) {
		return nil
	}

	now := time.Now()
	note := fmt.Sprintf("\n[%s] amount changed from %s to %s by %s",
		now.Format(time.RFC3339), oldAmount.StringFixed(2), newTotal.StringFixed(2), d.GetOperator().Name)
	if err := l.billsRepo.UpdateBill(ctx, bill.ID,
		repository.WithBillAmount(money.MustDecimal128(newTotal)),
		repository.WithIsPaid(money.IsPaid(paid, newTotal)),
		repository.WithAppendedNote(note),
	); err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}

	delta := money.Round2(newTotal.Sub(oldAmount))
	if err := l.appendBillTransaction(ctx, bill.Client, bill.ID, delta,
		fmt.Sprintf("order %s removed from bill", d.GetOrderID()), now); err != nil {
		return err
	}

	if err := l.auditLogRepo.Create(ctx, buildRecomputeBillAuditLog(d.GetOperator(), bill.ID,
		oldAmount.StringFixed(2), newTotal.StringFixed(2),
		fmt.Sprintf("order %s deleted", d.GetOrderID()))); err != nil {
		l.logger.Error("detachOrderFromBill: failed to create audit log", zap.Error(err))
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventBillUpdated,
		ClientID: bill.Client.Hex(),
		BillID:   bill.ID.Hex(),
		Amount:   newTotal.StringFixed(2),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("detachOrderFromBill: failed to publish ledger event", zap.Error(err), zap.Stringer("billID", bill.ID))
		return err
	}

	return nil
}

// appendBillTransaction records a bill-type ledger entry and reconciles the
// client's cached totals against the grown stream.
func (l *BillLogic) appendBillTransaction(ctx context.Context, clientID, billID primitive.ObjectID, amount decimal.Decimal, description string, now time.Time) error {
	transactions, err := l.transactionsRepo.GetTransactionsByClient(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load transaction history: %w", err)
	}
	totals, err := DerivedTotals(transactions)
	if err != nil {
		return err
	}
	totals.Billed = money.Round2(totals.Billed.Add(amount))
	totals.Balance = money.Round2(totals.Billed.Sub(totals.Credit))

	entry := &models.Transaction{
		ID:             primitive.NewObjectID(),
		Client:         clientID,
		Type:           constants.TransactionTypeBill.String(),
		Amount:         money.MustDecimal128(amount),
		Description:    description,
		Bill:           &billID,
		RunningBalance: money.MustDecimal128(totals.Balance),
		Date:           now,
		CreatedAt:      now,
	}
	if _, err := l.transactionsRepo.CreateTransaction(ctx, entry); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return persistClientCache(ctx, l.clientsRepo, clientID, totals)
}
