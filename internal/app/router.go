package app

import (
	"net/http"

	"washline_ledger/internal/limiter"
	http_middleware "washline_ledger/internal/middleware/http"
	"washline_ledger/internal/service"
)

// NewHttpHandlerRegister creates the registrar function for all HTTP handlers.
// It takes all necessary handlers as dependencies and registers them on the
// mux. Every route runs behind the auth middleware; the ledger attributes all
// mutations to a verified operator.
func NewHttpHandlerRegister(
	authMiddleware http_middleware.AuthMiddleware,
	limiterManager *limiter.Manager,
	clientsHandler *service.ClientsHandler,
	paymentsHandler *service.PaymentsHandler,
	reportsHandler *service.ReportsHandler,
	transactionExportHandler *service.TransactionExportHandler,
) HttpHandlerRegister {
	return func(mux *http.ServeMux) {
		handle := func(pattern string, handler http.Handler) {
			mux.Handle(pattern, authMiddleware(handler))
		}

		handle("POST /api/v1/clients", http.HandlerFunc(clientsHandler.Create))
		handle("GET /api/v1/clients", http.HandlerFunc(clientsHandler.List))
		handle("GET /api/v1/clients/{client_id}", http.HandlerFunc(clientsHandler.Get))
		handle("DELETE /api/v1/clients/{client_id}", http.HandlerFunc(clientsHandler.Delete))
		handle("POST /api/v1/clients/{client_id}/deposits", http.HandlerFunc(clientsHandler.AddDeposit))
		handle("GET /api/v1/clients/{client_id}/statement", http.HandlerFunc(clientsHandler.Statement))
		handle("GET /api/v1/clients/{client_id}/bills", http.HandlerFunc(clientsHandler.Bills))
		handle("GET /api/v1/clients/{client_id}/transactions", http.HandlerFunc(clientsHandler.Transactions))
		handle("GET /api/v1/clients/{client_id}/ledger", http.HandlerFunc(clientsHandler.Ledger))

		handle("POST /api/v1/bills/{bill_id}/payments", http.HandlerFunc(paymentsHandler.PayBill))
		handle("POST /api/v1/clients/{client_id}/payments", http.HandlerFunc(paymentsHandler.PayAllBills))

		handle("GET /api/v1/reports/revenue", http.HandlerFunc(reportsHandler.Revenue))

		// Full-history exports are expensive, so the route gets its own rate
		// limit policy.
		exportRateLimiter := http_middleware.CreateRateLimitMiddleware(limiterManager, "transactions_export")
		handle("GET /api/v1/clients/{client_id}/transactions/export", exportRateLimiter(transactionExportHandler))
	}
}
