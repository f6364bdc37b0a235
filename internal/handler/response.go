package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthtrack/backend/internal/apperror"
)

// ErrorResponse is the standard error body returned by every endpoint:
// a machine-readable kind plus a human-readable message. The message comes
// from apperror and is always client-safe.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body; once Encode writes, they're committed.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// WriteError maps a domain error to its HTTP status and writes the standard
// error body. This is the only place error kinds meet status codes; the
// service layer never sees HTTP.
//
// Unknown errors (anything outside the apperror taxonomy) become a generic
// 500 — the raw message might contain SQL or paths and is never sent.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		kind := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			kind = "validation_error"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusUnauthorized
			kind = "invalid_credentials"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			kind = "unauthenticated"
		case errors.Is(err, apperror.ErrInvalidToken):
			status = http.StatusUnauthorized
			kind = "invalid_token"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			kind = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			kind = "conflict"
		case errors.Is(err, apperror.ErrConfiguration):
			status = http.StatusInternalServerError
			kind = "configuration_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   kind,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
