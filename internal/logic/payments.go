package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/db"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/models"
	"washline_ledger/internal/money"
)

type PaymentLogic struct {
	tm               db.TransactionManager
	clientsRepo      repository.ClientsRepository
	billsRepo        repository.BillsRepository
	paymentsRepo     repository.PaymentsRepository
	transactionsRepo repository.TransactionsRepository
	auditLogRepo     repository.AuditLogRepository
	eventPublisher   *LedgerEventPublisher
	logger           *zap.Logger
}

func NewPaymentLogic(
	tm db.TransactionManager,
	clientsRepo repository.ClientsRepository,
	billsRepo repository.BillsRepository,
	paymentsRepo repository.PaymentsRepository,
	transactionsRepo repository.TransactionsRepository,
	auditLogRepo repository.AuditLogRepository,
	eventPublisher *LedgerEventPublisher,
	logger *zap.Logger,
) *PaymentLogic {
	return &PaymentLogic{
		tm:               tm,
		clientsRepo:      clientsRepo,
		billsRepo:        billsRepo,
		paymentsRepo:     paymentsRepo,
		transactionsRepo: transactionsRepo,
		auditLogRepo:     auditLogRepo,
		eventPublisher:   eventPublisher,
		logger:           logger.Named("PaymentLogic"),
	}
}

// PayBill applies a single payment to one bill. The transaction entry, the
// bill update, the payment record and the client cache reconciliation commit
// together or not at all.
func (l *PaymentLogic) PayBill(ctx context.Context, d *dto.PayBillRequest) (*models.Payment, error) {
	if !d.GetAmount().IsPositive() || !money.InRange(d.GetAmount()) {
		return nil, ErrInvalidAmount
	}

	result, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return l.payBill(sessCtx, d)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Payment), nil
}

func (l *PaymentLogic) payBill(ctx context.Context, d *dto.PayBillRequest) (*models.Payment, error) {
	bill, err := l.billsRepo.GetBillByID(ctx, d.GetBillID())
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	transactions, err := l.transactionsRepo.GetTransactionsByClient(ctx, bill.Client)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	totals, err := DerivedTotals(transactions)
	if err != nil {
		return nil, err
	}

	amount := money.Round2(d.GetAmount())
	if d.GetMethod().UsesDeposit() {
		if totals.Credit.LessThan(amount) {
			return nil, fmt.Errorf("credit %s cannot cover %s: %w", totals.Credit.String(), amount.String(), ErrInsufficientCredit)
		}
		totals.Credit = totals.Credit.Sub(amount)
		totals.Balance = money.Round2(totals.Billed.Sub(totals.Credit))
	}

	txType := constants.TransactionTypePayment
	if d.GetMethod().UsesDeposit() {
		txType = constants.TransactionTypeDepositUsed
	}

	now := time.Now()
	billID := bill.ID
	entry := &models.Transaction{
		ID:             primitive.NewObjectID(),
		Client:         bill.Client,
		Type:           txType.String(),
		Amount:         money.MustDecimal128(amount),
		Description:    d.GetNotes(),
		Bill:           &billID,
		PaymentMethod:  d.GetMethod().String(),
		RunningBalance: money.MustDecimal128(totals.Balance),
		Date:           now,
		CreatedAt:      now,
	}
	if _, err := l.transactionsRepo.CreateTransaction(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	billAmount, err := money.FromDecimal128(bill.Amount)
	if err != nil {
		return nil, fmt.Errorf("bill %s has invalid amount: %w", bill.ID.Hex(), err)
	}
	paid, err := money.FromDecimal128(bill.PaidAmount)
	if err != nil {
		return nil, fmt.Errorf("bill %s has invalid paid amount: %w", bill.ID.Hex(), err)
	}
	newPaid := money.Round2(paid.Add(amount))
	if err := l.billsRepo.UpdateBill(ctx, bill.ID,
		repository.WithPaidAmount(money.MustDecimal128(newPaid)),
		repository.WithIsPaid(money.IsPaid(newPaid, billAmount)),
	); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}

	payment := &models.Payment{
		ID:            primitive.NewObjectID(),
		Bill:          bill.ID,
		Client:        bill.Client,
		Amount:        money.MustDecimal128(amount),
		PaymentMethod: d.GetMethod().String(),
		Notes:         d.GetNotes(),
		ProcessedBy:   d.GetOperator(),
		CreatedAt:     now,
	}
	if _, err := l.paymentsRepo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	if err := persistClientCache(ctx, l.clientsRepo, bill.Client, totals); err != nil {
		return nil, err
	}

	if err := l.auditLogRepo.Create(ctx, buildPayBillAuditLog(d.GetOperator(), bill, amount.StringFixed(2), d.GetMethod().String())); err != nil {
		l.logger.Error("PayBill: failed to create audit log", zap.Error(err))
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventPayment,
		ClientID: bill.Client.Hex(),
		BillID:   bill.ID.Hex(),
		Amount:   amount.StringFixed(2),
		Method:   d.GetMethod().String(),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("PayBill: failed to publish ledger event", zap.Error(err), zap.Stringer("billID", bill.ID))
		return nil, err
	}

	return payment, nil
}

// PayAllBills distributes one payment amount across a client's unpaid bills
// oldest-first. It emits a single consolidated transaction for the whole
// distribution; any remainder above the total due is reported back, never
// silently absorbed.
func (l *PaymentLogic) PayAllBills(ctx context.Context, d *dto.PayAllBillsRequest) (*dto.BulkPaymentResult, error) {
	if !d.GetAmount().IsPositive() || !money.InRange(d.GetAmount()) {
		return nil, ErrInvalidAmount
	}

	result, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return l.payAllBills(sessCtx, d)
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.BulkPaymentResult), nil
}

func (l *PaymentLogic) payAllBills(ctx context.Context, d *dto.PayAllBillsRequest) (*dto.BulkPaymentResult, error) {
	client, err := l.clientsRepo.GetClientByID(ctx, d.GetClientID())
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	unpaidBills, err := l.billsRepo.GetUnpaidBillsByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid bills: %w", err)
	}
	if len(unpaidBills) == 0 {
		return nil, ErrNothingToPay
	}

	transactions, err := l.transactionsRepo.GetTransactionsByClient(ctx, client.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	totals, err := DerivedTotals(transactions)
	if err != nil {
		return nil, err
	}

	amount := money.Round2(d.GetAmount())
	if d.GetMethod().UsesDeposit() && totals.Credit.LessThan(amount) {
		return nil, fmt.Errorf("credit %s cannot cover %s: %w", totals.Credit.String(), amount.String(), ErrInsufficientCredit)
	}

	paymentMethod := d.GetMethod()
	if paymentMethod == constants.PaymentMethodDeposit {
		paymentMethod = constants.PaymentMethodBulkDeposit
	}

	now := time.Now()
	remaining := amount
	shares := make([]dto.PaidBillShare, 0, len(unpaidBills))
	billIDs := make([]string, 0, len(unpaidBills))
	for _, bill := range unpaidBills {
		if remaining.IsZero() {
			break
		}
		billAmount, err := money.FromDecimal128(bill.Amount)
		if err != nil {
			return nil, fmt.Errorf("bill %s has invalid amount: %w", bill.ID.Hex(), err)
		}
		paid, err := money.FromDecimal128(bill.PaidAmount)
		if err != nil {
			return nil, fmt.Errorf("bill %s has invalid paid amount: %w", bill.ID.Hex(), err)
		}
		due := money.DueOf(billAmount, paid)
		if due.IsZero() {
			continue
		}

		share := decimal.Min(due, remaining)
		newPaid := money.Round2(paid.Add(share))
		if err := l.billsRepo.UpdateBill(ctx, bill.ID,
			repository.WithPaidAmount(money.MustDecimal128(newPaid)),
			repository.WithIsPaid(money.IsPaid(newPaid, billAmount)),
		); err != nil {
			return nil, fmt.Errorf("failed to update bill %s: %w", bill.ID.Hex(), err)
		}

		payment := &models.Payment{
			ID:            primitive.NewObjectID(),
			Bill:          bill.ID,
			Client:        client.ID,
			Amount:        money.MustDecimal128(share),
			PaymentMethod: paymentMethod.String(),
			Notes:         d.GetNotes(),
			ProcessedBy:   d.GetOperator(),
			CreatedAt:     now,
		}
		if _, err := l.paymentsRepo.CreatePayment(ctx, payment); err != nil {
			return nil, fmt.Errorf("failed to create payment record for bill %s: %w", bill.ID.Hex(), err)
		}

		shares = append(shares, dto.PaidBillShare{BillID: bill.ID, Amount: share})
		billIDs = append(billIDs, bill.ID.Hex())
		remaining = money.Round2(remaining.Sub(share))
	}

	applied := money.Round2(amount.Sub(remaining))

	txType := constants.TransactionTypeBulkPayment
	if d.GetMethod().UsesDeposit() {
		txType = constants.TransactionTypeBulkDepositUsed
		// Deposit is drawn down once for the applied total, after the whole
		// distribution has succeeded.
		totals.Credit = totals.Credit.Sub(applied)
		totals.Balance = money.Round2(totals.Billed.Sub(totals.Credit))
	}

	description := fmt.Sprintf("bulk payment across bills %s", strings.Join(billIDs, ", "))
	if d.GetNotes() != "" {
		description = fmt.Sprintf("%s (%s)", description, d.GetNotes())
	}
	entry := &models.Transaction{
		ID:             primitive.NewObjectID(),
		Client:         client.ID,
		Type:           txType.String(),
		Amount:         money.MustDecimal128(applied),
		Description:    description,
		PaymentMethod:  paymentMethod.String(),
		RunningBalance: money.MustDecimal128(totals.Balance),
		Date:           now,
		CreatedAt:      now,
	}
	entryID, err := l.transactionsRepo.CreateTransaction(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to append consolidated transaction: %w", err)
	}

	if err := persistClientCache(ctx, l.clientsRepo, client.ID, totals); err != nil {
		return nil, err
	}

	if err := l.auditLogRepo.Create(ctx, buildBulkPayAuditLog(d.GetOperator(), client.ID, applied.StringFixed(2), paymentMethod.String(), billIDs)); err != nil {
		l.logger.Error("PayAllBills: failed to create audit log", zap.Error(err))
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventBulkPayment,
		ClientID: client.ID.Hex(),
		Amount:   applied.StringFixed(2),
		Method:   paymentMethod.String(),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("PayAllBills: failed to publish ledger event", zap.Error(err), zap.Stringer("clientID", client.ID))
		return nil, err
	}

	return &dto.BulkPaymentResult{
		TransactionID: entryID,
		PaidBills:     shares,
		Remaining:     remaining,
	}, nil
}
