package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"washline_ledger/internal/dto"
	"washline_ledger/internal/logic"
	"washline_ledger/internal/models"
	"washline_ledger/pkg/pagination"
)

// ClientsHandler serves the client lifecycle and reporting endpoints.
type ClientsHandler struct {
	clientLogic *logic.ClientLogic
	logger      *zap.Logger
}

func NewClientsHandler(clientLogic *logic.ClientLogic, logger *zap.Logger) *ClientsHandler {
	return &ClientsHandler{clientLogic: clientLogic, logger: logger}
}

type createClientBody struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Create handles POST /api/v1/clients.
func (h *ClientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createClientBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == "" || body.Phone == "" {
		WriteHttpError(w, http.StatusBadRequest, "Missing required fields: name, phone")
		return
	}

	operator := models.OperatorFromContext(r.Context())
	client, err := h.clientLogic.CreateClient(r.Context(), dto.NewCreateClientRequest(body.Name, body.Phone, body.Address, operator))
	if err != nil {
		h.logger.Warn("Create client failed", zap.String("phone", body.Phone), zap.Error(err))
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, client)
}

// Get handles GET /api/v1/clients/{client_id}.
func (h *ClientsHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}

	client, err := h.clientLogic.GetClient(r.Context(), clientID)
	if err != nil {
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, client)
}

// List handles GET /api/v1/clients.
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq := pageRequest(r)

	clients, total, err := h.clientLogic.ListClients(r.Context(), pageReq.GetLimit(), pageReq.GetOffset())
	if err != nil {
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, pagination.NewPageResult(clients, total, pageReq))
}

// Delete handles DELETE /api/v1/clients/{client_id}. Deletion is refused
// while the client has unpaid bills or unused prepaid credit.
func (h *ClientsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}

	operator := models.OperatorFromContext(r.Context())
	if err := h.clientLogic.DeleteClient(r.Context(), clientID, operator); err != nil {
		h.logger.Warn("Delete client refused", zap.Stringer("clientID", clientID), zap.Error(err))
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, nil)
}

type addDepositBody struct {
	Amount string `json:"amount"`
	Notes  string `json:"notes"`
}

// AddDeposit handles POST /api/v1/clients/{client_id}/deposits.
func (h *ClientsHandler) AddDeposit(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}

	var body addDepositBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid amount format")
		return
	}

	operator := models.OperatorFromContext(r.Context())
	tx, err := h.clientLogic.AddDeposit(r.Context(), dto.NewAddDepositRequest(clientID, amount, body.Notes, operator))
	if err != nil {
		h.logger.Warn("Add deposit failed", zap.Stringer("clientID", clientID), zap.Error(err))
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, tx)
}

// Statement handles GET /api/v1/clients/{client_id}/statement.
func (h *ClientsHandler) Statement(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}
	pageReq := pageRequest(r)

	statement, err := h.clientLogic.Statement(r.Context(), clientID, pageReq.GetLimit(), pageReq.GetOffset())
	if err != nil {
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, statement)
}

// Bills handles GET /api/v1/clients/{client_id}/bills.
func (h *ClientsHandler) Bills(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}
	pageReq := pageRequest(r)

	bills, total, err := h.clientLogic.Bills(r.Context(), clientID, pageReq.GetLimit(), pageReq.GetOffset())
	if err != nil {
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, pagination.NewPageResult(bills, total, pageReq))
}

// ledgerPoint is the wire form of one running balance entry.
type ledgerPoint struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     string              `json:"balance"`
}

// Ledger handles GET /api/v1/clients/{client_id}/ledger. The view query
// parameter selects which running balance projection to replay.
func (h *ClientsHandler) Ledger(w http.ResponseWriter, r *http.Request) {
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

	points, err := h.clientLogic.Ledger(r.Context(), clientID, view)
	if err != nil {
		WriteHttpLogicError(w, err)
		return
	}

	entries := make([]ledgerPoint, 0, len(points))
	for _, p := range points {
		entries = append(entries, ledgerPoint{Transaction: p.Transaction, Balance: p.Balance.StringFixed(2)})
	}

	WriteHttpSuccess(w, http.StatusOK, map[string]interface{}{
		"view":    string(view),
		"entries": entries,
	})
}

// Transactions handles GET /api/v1/clients/{client_id}/transactions. Pages
// are newest-first; the next page is requested with the returned token.
func (h *ClientsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathObjectID(w, r, "client_id")
	if !ok {
		return
	}

	pageSize := pagination.DefaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= pagination.MaxPageSize {
		pageSize = v
	}
	token := pagination.PageToken(r.URL.Query().Get("page_token"))

	transactions, nextToken, err := h.clientLogic.TransactionsPage(r.Context(), clientID, token, pageSize)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidToken) {
			WriteHttpError(w, http.StatusBadRequest, "Invalid page token")
			return
		}
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, map[string]interface{}{
		"transactions":    transactions,
		"next_page_token": string(nextToken),
	})
}

// pathObjectID parses an ObjectID path segment, writing a 400 on failure.
func pathObjectID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(r.PathValue(name))
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// pageRequest reads page/page_size query parameters with defaults.
func pageRequest(r *http.Request) *pagination.PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return pagination.NewPageRequest(page, pageSize)
}
