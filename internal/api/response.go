// Package api serves the date lifecycle over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/session"
)

// Response is the envelope for every reply.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

const (
	statusOK    = "ok"
	statusError = "error"
)

func success(result any) Response {
	return Response{Status: statusOK, Result: result}
}

func failure(message string) Response {
	return Response{Status: statusError, Message: message}
}

var fallbackErrorResponse []byte

func init() {
	var err error
	fallbackErrorResponse, err = json.Marshal(failure("Internal server error"))
	if err != nil {
		panic(fmt.Sprintf("failed to marshal fallback error response: %v", err))
	}
}

// writeJSONResponse marshals before writing headers so an encoding failure
// still produces a well-formed reply.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		data = fallbackErrorResponse
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// statusFor maps engine and session errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrGameOver), errors.Is(err, engine.ErrGameNotOver):
		return http.StatusConflict
	case errors.Is(err, engine.ErrEmptyInput),
		errors.Is(err, engine.ErrInvalidSilenceLevel),
		errors.Is(err, engine.ErrUnknownAbility),
		errors.Is(err, engine.ErrNotCoOp):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInsufficientBudget):
		return http.StatusPaymentRequired
	case engine.IsRetryable(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "Internal server error"
	} else {
		slog.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSONResponse(w, code, failure(msg))
}
