// Package respond writes JSON responses and keeps internal error details
// out of them.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes {"error": err.Error()} with the given status code.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeFragments mark messages that describe the caller's input and can be
// returned verbatim.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"cannot be",
	"too long",
	"too large",
}

// SafeError writes an error response without leaking internals.
//
// An *AppError anywhere in the chain supplies both the status code and the
// user message. Otherwise 4xx errors whose message looks like input
// validation are returned as-is and everything else becomes a generic
// message, with the sanitized detail logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
		return
	}

	msg := err.Error()
	if code < http.StatusInternalServerError && isSafe(msg) {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("request failed",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": genericMessage(code)})
}

func isSafe(msg string) bool {
	lower := strings.ToLower(msg)
	for _, fragment := range safeFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

func genericMessage(code int) string {
	if code >= http.StatusInternalServerError {
		return "internal server error"
	}
	return strings.ToLower(http.StatusText(code))
}

// AppError carries a user-facing message alongside the internal error.
type AppError struct {
	UserMsg string // shown to the caller
	Err     error  // logged, never returned
	Code    int    // HTTP status
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the internal error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}
