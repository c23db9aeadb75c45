package service

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"washline_ledger/internal/logic"
)

// TransactionExportHandler handles the HTTP request for exporting a client's
// transaction history as CSV.
type TransactionExportHandler struct {
	clientLogic *logic.ClientLogic
	logger      *zap.Logger
}

// NewTransactionExportHandler creates a new instance of TransactionExportHandler.
func NewTransactionExportHandler(clientLogic *logic.ClientLogic, logger *zap.Logger) *TransactionExportHandler {
	return &TransactionExportHandler{clientLogic: clientLogic, logger: logger}
}

// ServeHTTP implements the http.Handler interface.
func (h *TransactionExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}

	view := logic.LedgerViewCredit
	if viewStr := r.URL.Query().Get("view"); viewStr != "" {
		parsed, ok := logic.ParseLedgerView(viewStr)
		if !ok {
			WriteHttpError(w, http.StatusBadRequest, "Invalid view: must be 'credit' or 'bill'")
			return
		}
		view = parsed
	}

	filename, csvData, err := h.clientLogic.ExportTransactions(r.Context(), clientID, view)
	if err != nil {
		WriteHttpLogicError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(csvData); err != nil {
		// The status line is already gone, so the failure can only be logged.
		h.logger.Error("Failed to write csv response", zap.Error(err))
	}
}
