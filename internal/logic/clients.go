package logic

import (
	"context"
	"fmt"
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
	"washline_ledger/pkg/pagination"
)

type ClientLogic struct {
	tm               db.TransactionManager
	clientsRepo      repository.ClientsRepository
	billsRepo        repository.BillsRepository
	transactionsRepo repository.TransactionsRepository
	auditLogRepo     repository.AuditLogRepository
	eventPublisher   *LedgerEventPublisher
	logger           *zap.Logger
}

func NewClientLogic(
	tm db.TransactionManager,
	clientsRepo repository.ClientsRepository,
	billsRepo repository.BillsRepository,
	transactionsRepo repository.TransactionsRepository,
	auditLogRepo repository.AuditLogRepository,
	eventPublisher *LedgerEventPublisher,
	logger *zap.Logger,
) *ClientLogic {
	return &ClientLogic{
		tm:               tm,
		clientsRepo:      clientsRepo,
		billsRepo:        billsRepo,
		transactionsRepo: transactionsRepo,
		auditLogRepo:     auditLogRepo,
		eventPublisher:   eventPublisher,
		logger:           logger.Named("ClientLogic"),
	}
}

func (l *ClientLogic) CreateClient(ctx context.Context, d *dto.CreateClientRequest) (*models.Client, error) {
	now := time.Now()
	zero := money.MustDecimal128(decimal.Zero)
	client := &models.Client{
		ID:        primitive.NewObjectID(),
		Name:      d.GetName(),
		Phone:     d.GetPhone(),
		Address:   d.GetAddress(),
		Amount:    zero,
		Deposit:   zero,
		Balance:   zero,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: d.GetOperator(),
	}

	if _, err := l.clientsRepo.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildCreateClientAuditLog(d.GetOperator(), client)); err != nil {
		l.logger.Error("CreateClient: failed to create audit log", zap.Error(err))
	}

	return client, nil
}

func (l *ClientLogic) GetClient(ctx context.Context, id primitive.ObjectID) (*models.Client, error) {
	return l.clientsRepo.GetClientByID(ctx, id)
}

func (l *ClientLogic) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, int64, error) {
	return l.clientsRepo.ListClients(ctx, limit, offset)
}

// AddDeposit credits a client's prepaid balance with a deposit transaction.
func (l *ClientLogic) AddDeposit(ctx context.Context, d *dto.AddDepositRequest) (*models.Transaction, error) {
	if !d.GetAmount().IsPositive() || !money.InRange(d.GetAmount()) {
		return nil, ErrInvalidAmount
	}

	result, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return l.addDeposit(sessCtx, d)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Transaction), nil
}

func (l *ClientLogic) addDeposit(ctx context.Context, d *dto.AddDepositRequest) (*models.Transaction, error) {
	client, err := l.clientsRepo.GetClientByID(ctx, d.GetClientID())
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
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
	totals.Credit = money.Round2(totals.Credit.Add(amount))
	totals.Balance = money.Round2(totals.Billed.Sub(totals.Credit))

	now := time.Now()
	entry := &models.Transaction{
		ID:             primitive.NewObjectID(),
		Client:         client.ID,
		Type:           constants.TransactionTypeDeposit.String(),
		Amount:         money.MustDecimal128(amount),
		Description:    d.GetNotes(),
		RunningBalance: money.MustDecimal128(totals.Balance),
		Date:           now,
		CreatedAt:      now,
	}
	if _, err := l.transactionsRepo.CreateTransaction(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	if err := persistClientCache(ctx, l.clientsRepo, client.ID, totals); err != nil {
		return nil, err
	}

	if err := l.auditLogRepo.Create(ctx, buildAddDepositAuditLog(d.GetOperator(), client, amount.StringFixed(2))); err != nil {
		l.logger.Error("AddDeposit: failed to create audit log", zap.Error(err))
	}

	if err := l.eventPublisher.Publish(ctx, &LedgerEvent{
		Action:   LedgerEventDeposit,
		ClientID: client.ID.Hex(),
		Amount:   amount.StringFixed(2),
		Operator: d.GetOperator().Name,
	}); err != nil {
		l.logger.Error("AddDeposit: failed to publish ledger event", zap.Error(err), zap.Stringer("clientID", client.ID))
		return nil, err
	}

	return entry, nil
}

// DeleteClient removes a client and cascade-deletes their transaction log.
// Deletion is refused while any bill is unpaid or prepaid credit remains.
func (l *ClientLogic) DeleteClient(ctx context.Context, id primitive.ObjectID, operator *models.User) error {
	_, err := l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		return nil, l.deleteClient(sessCtx, id, operator)
	})
	return err
}

func (l *ClientLogic) deleteClient(ctx context.Context, id primitive.ObjectID, operator *models.User) error {
	client, err := l.clientsRepo.GetClientByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}

	unpaid, err := l.billsRepo.CountUnpaidBillsByClient(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count unpaid bills: %w", err)
	}
	if unpaid > 0 {
		return fmt.Errorf("client %s has %d unpaid bills: %w", id.Hex(), unpaid, ErrClientHasOutstanding)
	}

	totals, err := reloadClientTotals(ctx, l.transactionsRepo, id)
	if err != nil {
		return err
	}
	if !totals.Credit.IsZero() {
		return fmt.Errorf("client %s has %s unused credit: %w", id.Hex(), totals.Credit.String(), ErrClientHasOutstanding)
	}

	if _, err := l.transactionsRepo.DeleteTransactionsByClient(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if err := l.clientsRepo.DeleteClient(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildDeleteClientAuditLog(operator, client)); err != nil {
		l.logger.Error("DeleteClient: failed to create audit log", zap.Error(err))
	}

	return nil
}

// Statement assembles a client's reporting view. The due and credit figures
// are derived from bills and the transaction stream, never read from the
// cached client fields.
func (l *ClientLogic) Statement(ctx context.Context, id primitive.ObjectID, limit, offset int) (*dto.ClientStatement, error) {
	client, err := l.clientsRepo.GetClientByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	unpaidBills, err := l.billsRepo.GetUnpaidBillsByClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid bills: %w", err)
	}
	due, err := UnpaidDue(unpaidBills)
	if err != nil {
		return nil, err
	}

	transactions, err := l.transactionsRepo.GetTransactionsByClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	credit, err := CreditAvailable(transactions)
	if err != nil {
		return nil, err
	}

	bills, _, err := l.billsRepo.GetBillsByClient(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}

	return &dto.ClientStatement{
		Client:          client,
		UnpaidDue:       due.StringFixed(2),
		CreditAvailable: credit.StringFixed(2),
		Bills:           bills,
		Transactions:    transactions,
	}, nil
}

// Bills returns one offset page of a client's bills, newest first.
func (l *ClientLogic) Bills(ctx context.Context, id primitive.ObjectID, limit, offset int) ([]*models.Bill, int64, error) {
	if _, err := l.clientsRepo.GetClientByID(ctx, id); err != nil {
		return nil, 0, fmt.Errorf("failed to get client: %w", err)
	}
	bills, total, err := l.billsRepo.GetBillsByClient(ctx, id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bills: %w", err)
	}
	return bills, total, nil
}

// TransactionsPage returns one page of a client's history, newest first. The
// opaque token encodes the position of the last entry of the previous page.
func (l *ClientLogic) TransactionsPage(ctx context.Context, id primitive.ObjectID, token pagination.PageToken, pageSize int) ([]*models.Transaction, pagination.PageToken, error) {
	if _, err := l.clientsRepo.GetClientByID(ctx, id); err != nil {
		return nil, "", fmt.Errorf("failed to get client: %w", err)
	}

	params := &repository.GetTransactionsPageParams{
		ClientID: id,
		Limit:    int64(pageSize),
	}
	cursor, err := token.Decode()
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		cursorID, err := primitive.ObjectIDFromHex(cursor.CursorID)
		if err != nil {
			return nil, "", pagination.ErrInvalidToken
		}
		cursorDate := cursor.Timestamp()
		params.CursorID = cursorID
		params.CursorDate = &cursorDate
	}

	transactions, err := l.transactionsRepo.GetTransactionsByClientPage(ctx, params)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load transactions page: %w", err)
	}

	var next pagination.PageToken
	if len(transactions) == pageSize {
		last := transactions[len(transactions)-1]
		next, err = pagination.GenerateToken(last.ID, last.Date)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate page token: %w", err)
		}
	}
	return transactions, next, nil
}

// Ledger replays a client's history and returns the running balance series
// for the requested projection.
func (l *ClientLogic) Ledger(ctx context.Context, id primitive.ObjectID, view LedgerView) ([]RunningBalancePoint, error) {
	if _, err := l.clientsRepo.GetClientByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	transactions, err := l.transactionsRepo.GetTransactionsByClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	return RunningBalanceSeries(transactions, view)
}

// Revenue aggregates billed/paid/pending totals over a date range.
func (l *ClientLogic) Revenue(ctx context.Context, from, to time.Time) (*dto.RevenueTotals, error) {
	totals, err := l.billsRepo.SumBillsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bills: %w", err)
	}

	billed, err := money.FromDecimal128(totals.Billed)
	if err != nil {
		return nil, fmt.Errorf("aggregated billed total is invalid: %w", err)
	}
	paid, err := money.FromDecimal128(totals.Paid)
	if err != nil {
		return nil, fmt.Errorf("aggregated paid total is invalid: %w", err)
	}
	totals.Pending = money.MustDecimal128(money.DueOf(billed, paid))
	return totals, nil
}
