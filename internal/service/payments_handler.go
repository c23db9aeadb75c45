package service

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"washline_ledger/internal/constants"
	"washline_ledger/internal/dto"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/models"
)

// PaymentsHandler serves the single-bill and bulk payment endpoints.
type PaymentsHandler struct {
	paymentLogic *logic.PaymentLogic
	logger       *zap.Logger
}

func NewPaymentsHandler(paymentLogic *logic.PaymentLogic, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{paymentLogic: paymentLogic, logger: logger}
}

type paymentBody struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
	Notes  string `json:"notes"`
}

func (b *paymentBody) parse(w http.ResponseWriter) (decimal.Decimal, constants.PaymentMethod, bool) {
	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid amount format")
		return decimal.Zero, "", false
	}
	method, ok := constants.ParsePaymentMethod(b.Method)
	if !ok {
		WriteHttpError(w, http.StatusBadRequest, "Invalid payment method")
		return decimal.Zero, "", false
	}
	if method == constants.PaymentMethodBulkDeposit {
		// bulk_deposit is an internal marker for consolidated records, not a
		// method callers may request.
		WriteHttpError(w, http.StatusBadRequest, "Invalid payment method")
		return decimal.Zero, "", false
	}
	return amount, method, true
}

// PayBill handles POST /api/v1/bills/{bill_id}/payments.
func (h *PaymentsHandler) PayBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := pathObjectID(w, r, "bill_id")
	if !ok {
		return
	}

	var body paymentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, method, ok := body.parse(w)
	if !ok {
		return
	}

	operator := models.OperatorFromContext(r.Context())
	payment, err := h.paymentLogic.PayBill(r.Context(), dto.NewPayBillRequest(billID, amount, method, body.Notes, operator))
	if err != nil {
		h.logger.Warn("Pay bill failed", zap.Stringer("billID", billID), zap.Error(err))
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, payment)
}

// PayAllBills handles POST /api/v1/clients/{client_id}/payments. One amount
// is distributed across the client's unpaid bills oldest-first.
func (h *PaymentsHandler) PayAllBills(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}

	var body paymentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, method, ok := body.parse(w)
	if !ok {
		return
	}

	operator := models.OperatorFromContext(r.Context())
	result, err := h.paymentLogic.PayAllBills(r.Context(), dto.NewPayAllBillsRequest(clientID, amount, method, body.Notes, operator))
	if err != nil {
		h.logger.Warn("Bulk payment failed", zap.Stringer("clientID", clientID), zap.Error(err))
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, result)
}
