package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/littlesteps/booking/internal/service"
	"github.com/littlesteps/booking/internal/validation"
)

const maxJSONBody = 1 << 20

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, envelope{Error: &apiError{Code: code, Message: message, Details: details}})
}

// errorMapping ties a service sentinel to its HTTP shape. The sentinel's
// message is safe to show; wrapped detail is not.
type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{service.ErrInvalidExportType, http.StatusBadRequest, "invalid_export_type"},
	{service.ErrInvalidQuote, http.StatusBadRequest, "invalid_quote"},
	{service.ErrInvalidRate, http.StatusBadRequest, "invalid_rate"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{service.ErrEmailTransport, http.StatusBadGateway, "email_failed"},

	{service.ErrTokenNotFound, http.StatusNotFound, "token_invalid"},
	{service.ErrTokenExpired, http.StatusGone, "token_expired"},
	{service.ErrTokenUsed, http.StatusConflict, "token_used"},

	{service.ErrDeletionNotFound, http.StatusNotFound, "deletion_invalid"},
	{service.ErrDeletionExpired, http.StatusGone, "deletion_expired"},
	{service.ErrDeletionCompleted, http.StatusConflict, "deletion_completed"},

	{service.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
	{service.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{service.ErrRateNotFound, http.StatusNotFound, "rate_not_found"},
	{service.ErrConsentNotFound, http.StatusNotFound, "consent_not_found"},
	{service.ErrMediaNotFound, http.StatusNotFound, "media_not_found"},
	{service.ErrLegalPageNotFound, http.StatusNotFound, "page_not_found"},
	{service.ErrStorageDisabled, http.StatusServiceUnavailable, "storage_disabled"},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrAdminExists, http.StatusConflict, "admin_exists"},
}

// respondServiceError maps err onto a status and error code. Unknown errors
// are logged and reported as a generic 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", "Please check the highlighted fields.", fields)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.code, m.err.Error(), nil)
			return
		}
	}

	slog.Error("request failed", "error", err, "method", r.Method, "route", r.Pattern)
	respondError(w, http.StatusInternalServerError, "internal_error", "Something went wrong.", nil)
}

// decodeJSON reads a bounded JSON body into v and answers 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		respondError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body is too large.", nil)
	case errors.Is(err, io.EOF):
		respondError(w, http.StatusBadRequest, "invalid_json", "Request body is empty.", nil)
	default:
		respondError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON.", nil)
	}
	return false
}
