package service

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"washline_ledger/internal/logic"
)

// ReportsHandler serves shop-wide reporting endpoints.
type ReportsHandler struct {
	clientLogic *logic.ClientLogic
	logger      *zap.Logger
}

func NewReportsHandler(clientLogic *logic.ClientLogic, logger *zap.Logger) *ReportsHandler {
	return &ReportsHandler{clientLogic: clientLogic, logger: logger}
}

// Revenue handles GET /api/v1/reports/revenue. The from/to dates are
// inclusive calendar days; to defaults to from for a single-day report.
func (h *ReportsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	fromStr := r.URL.Query().Get("from")
	if fromStr == "" {
		WriteHttpError(w, http.StatusBadRequest, "Missing required parameter: from")
		return
	}
	from, err := time.ParseInLocation(time.DateOnly, fromStr, time.Local)
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, "Invalid from date: expected YYYY-MM-DD")
		return
	}

	to := from
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err = time.ParseInLocation(time.DateOnly, toStr, time.Local)
		if err != nil {
			WriteHttpError(w, http.StatusBadRequest, "Invalid to date: expected YYYY-MM-DD")
			return
		}
	}
	if to.Before(from) {
		WriteHttpError(w, http.StatusBadRequest, "Invalid range: to is before from")
		return
	}

	// The aggregation range is half-open, so the inclusive end day extends to
	// the next midnight.
	totals, err := h.clientLogic.Revenue(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error("Revenue report failed", zap.Error(err))
		WriteHttpLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, totals)
}
