package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"financetrack/internal/apperror"
	"financetrack/internal/logging"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps application errors onto HTTP status codes. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, logger logging.Logger, err error) {
	var (
		authErr     *apperror.AuthError
		notFoundErr *apperror.NotFoundError
		columnErr   *apperror.ColumnDetectionError
		rowErr      *apperror.RowValidationError
		badRequest  *requestError
		storeWrite  *apperror.StoreWriteError
	)

	switch {
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: authErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundErr.Error()})
	case errors.As(err, &columnErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: columnErr.Error()})
	case errors.As(err, &rowErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: rowErr.Error()})
	case errors.As(err, &badRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: badRequest.Error()})
	case errors.As(err, &storeWrite):
		logger.WithError(err).Error("Store write failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	default:
		logger.WithError(err).Error("Unhandled request error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// requestError marks malformed client input (bad JSON, bad query params).
type requestError struct {
	reason string
}

func (e *requestError) Error() string { return e.reason }

func badRequestf(format string, args ...interface{}) error {
	return &requestError{reason: fmt.Sprintf(format, args...)}
}
