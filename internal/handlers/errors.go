package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"flexone-api/internal/contextutil"
	"flexone-api/internal/llm"
	"flexone-api/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// writeRelayError maps a relay failure to an HTTP response. Provider failures
// arrive as *llm.Error with a Kind already assigned; validation failures as
// *service.ValidationError. Unknown failures get a generic message, with the
// detail logged rather than leaked.
func writeRelayError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		logger.ErrorContext(ctx, "relay failed", "kind", llmErr.Kind.String(), "status", llmErr.StatusCode, "error", err)
		switch llmErr.Kind {
		case llm.KindAuth:
			writeError(w, http.StatusUnauthorized, "Invalid API key")
		case llm.KindRateLimited:
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		case llm.KindInvalidRequest:
			// The provider's own rejection message is surfaced verbatim.
			writeError(w, http.StatusBadRequest, llmErr.Message)
		case llm.KindNetwork:
			writeError(w, http.StatusServiceUnavailable, "LLM provider unreachable")
		case llm.KindProviderStatus:
			status := llmErr.StatusCode
			if status < 400 {
				status = http.StatusInternalServerError
			}
			writeError(w, status, fmt.Sprintf("LLM provider error: %s", llmErr.Message))
		default:
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	logger.ErrorContext(ctx, "unexpected relay failure", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
