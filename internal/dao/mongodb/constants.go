package mongodb

const (
	CollectionClients      = "clients"
	CollectionBills        = "bills"
	CollectionPayments     = "payments"
	CollectionTransactions = "transactions"
	CollectionOrderRefs    = "order_refs"
	CollectionOutbox       = "outbox"
	CollectionAuditLogs    = "audit_logs"
)
