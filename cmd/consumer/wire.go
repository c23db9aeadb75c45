//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"washline_ledger/cmd/consumer/handlers"
	"washline_ledger/internal/conf"
	"washline_ledger/internal/dao/mongodb"
	"washline_ledger/internal/dao/repository"
	"washline_ledger/internal/logger"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/mq/rabbitmq"
	"washline_ledger/internal/provider"
	"washline_ledger/pkg/snowflake"
)

// provideHandlers collects all individual MessageHandlers into a slice.
func provideHandlers(
	orderCreatedHandler *handlers.OrderCreatedHandler,
	orderItemsChangedHandler *handlers.OrderItemsChangedHandler,
	orderDeletedHandler *handlers.OrderDeletedHandler,
) []handlers.MessageHandler {
	return []handlers.MessageHandler{
		orderCreatedHandler,
		orderItemsChangedHandler,
		orderDeletedHandler,
	}
}

// InitializeConsumerApp creates the consumer application and its dependencies.
func InitializeConsumerApp(appConfig *conf.AppConfig) (*ConsumerApp, func(), error) {
	wire.Build(
		// Config Providers
		wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "MongodbConfig", "RabbitMQConfig"),
		provider.ProvideAppMode,

		// Common Components
		logger.NewLogger,
		mongodb.NewMongoDB,
		provider.ProvideDatabase,
		provider.ProvideTransactionManager,
		provider.ProvideMachineID,
		provider.ProvideLedgerEventTopic,
		snowflake.NewGenerator,

		// DAO Layer
		mongodb.NewClientsDAO,
		wire.Bind(new(repository.ClientsRepository), new(*mongodb.ClientsDAO)),
		mongodb.NewBillsDAO,
		wire.Bind(new(repository.BillsRepository), new(*mongodb.BillsDAO)),
		mongodb.NewPaymentsDAO,
		wire.Bind(new(repository.PaymentsRepository), new(*mongodb.PaymentsDAO)),
		mongodb.NewTransactionsDAO,
		wire.Bind(new(repository.TransactionsRepository), new(*mongodb.TransactionsDAO)),
		mongodb.NewOrderRefsDAO,
		wire.Bind(new(repository.OrderRefsRepository), new(*mongodb.OrderRefsDAO)),
		mongodb.NewAuditLogDAO,
		wire.Bind(new(repository.AuditLogRepository), new(*mongodb.AuditLogDAO)),
		mongodb.NewOutboxDAO,
		wire.Bind(new(repository.OutboxRepository), new(*mongodb.OutboxDAO)),

		// Logic Layer
		logic.NewLedgerEventPublisher,
		logic.NewBillLogic,

		// MQ Consumer
		rabbitmq.NewConsumer,

		// Handlers
		handlers.NewOrderCreatedHandler,
		handlers.NewOrderItemsChangedHandler,
		handlers.NewOrderDeletedHandler,
		provideHandlers,

		// Final App
		NewConsumerApp,
	)
	return nil, nil, nil
}
