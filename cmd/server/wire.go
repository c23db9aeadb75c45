//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"washline_ledger/internal/app"
	"washline_ledger/internal/conf"
	"washline_ledger/internal/dao/mongodb"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/limiter"
	"washline_ledger/internal/logger"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/middleware/http"
	"washline_ledger/internal/mq"
	"washline_ledger/internal/mq/rabbitmq"
	"washline_ledger/internal/provider"
	"washline_ledger/internal/service"
	"washline_ledger/internal/worker"
)

// baseProviders contains the shared components of the ledger server.
var baseProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "MongodbConfig", "WorkerConfig", "JwtConfig", "RedisConfig", "RateLimiterConfig"),
	provider.ProvideAppMode,
	logger.NewLogger,
	mongodb.NewMongoDB,
	provider.ProvideDatabase,
	provider.ProvideLedgerEventTopic,
	provider.ProvideTransactionManager,
	provider.ProvideJwtGenerator,
	provider.ProvideRedisNamespace,
	provider.ProvideRedisClient,
	limiter.NewManager,
	mongodb.NewClientsDAO,
	wire.Bind(new(repository.ClientsRepository), new(*mongodb.ClientsDAO)),
	mongodb.NewBillsDAO,
	wire.Bind(new(repository.BillsRepository), new(*mongodb.BillsDAO)),
	mongodb.NewPaymentsDAO,
	wire.Bind(new(repository.PaymentsRepository), new(*mongodb.PaymentsDAO)),
	mongodb.NewTransactionsDAO,
	wire.Bind(new(repository.TransactionsRepository), new(*mongodb.TransactionsDAO)),
	mongodb.NewAuditLogDAO,
	wire.Bind(new(repository.AuditLogRepository), new(*mongodb.AuditLogDAO)),
	mongodb.NewOutboxDAO,
	wire.Bind(new(repository.OutboxRepository), new(*mongodb.OutboxDAO)),
	logic.NewLedgerEventPublisher,
	logic.NewClientLogic,
	logic.NewPaymentLogic,
)

// rabbitMQProviders contains the RabbitMQ publisher and the background workers.
var rabbitMQProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "RabbitMQConfig"),
	rabbitmq.NewPublisher,
	wire.Bind(new(mq.Publisher), new(*rabbitmq.Publisher)),
	worker.NewOutboxProcessor,
	worker.NewBalanceAuditor,
)

// provideServerWorkers collects the background workers run by the server.
func provideServerWorkers(outboxProcessor *worker.OutboxProcessor, balanceAuditor *worker.BalanceAuditor) []worker.Worker {
	return []worker.Worker{outboxProcessor, balanceAuditor}
}

func InitializeServerApp(appConfig *conf.AppConfig) (*app.App, func(), error) {
	wire.Build(
		baseProviders,
		rabbitMQProviders,
		wire.FieldsOf(new(*conf.AppConfig), "Port"),
		service.NewClientsHandler,
		service.NewPaymentsHandler,
		service.NewReportsHandler,
		service.NewTransactionExportHandler,
		http.NewAuthMiddleware,
		app.NewHttpHandlerRegister,
		provideServerWorkers,
		app.NewApp,
	)
	return nil, nil, nil
}
