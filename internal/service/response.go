package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"washline_ledger/internal/dao/mongodb"
	"washline_ledger/internal/logic"
)

// WriteHttpError writes a standard JSON error response to the http.ResponseWriter.
func WriteHttpError(w http.ResponseWriter, httpCode int, message string) {
	resp := map[string]interface{}{
		"status":  "error",
		"code":    httpCode,
		"message": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(resp)
}

// WriteHttpSuccess writes a standard JSON success response to the http.ResponseWriter.
func WriteHttpSuccess(w http.ResponseWriter, httpCode int, data any) {
	resp := map[string]interface{}{
		"status": "success",
		"code":   httpCode,
		"data":   data,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(resp)
}

// WriteHttpLogicError maps domain errors to HTTP status codes and writes the
// standard error envelope.
func WriteHttpLogicError(w http.ResponseWriter, err error) {
	WriteHttpError(w, httpStatusOf(err), err.Error())
}

func httpStatusOf(err error) int {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mongodb.ErrDuplicatePhone),
		errors.Is(err, logic.ErrClientHasOutstanding),
		errors.Is(err, logic.ErrBillAlreadyPaid),
		errors.Is(err, logic.ErrBillWrongClient),
		errors.Is(err, logic.ErrOrderAlreadyRecorded):
		return http.StatusConflict
	case errors.Is(err, logic.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrInsufficientCredit),
		errors.Is(err, logic.ErrNothingToPay):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
