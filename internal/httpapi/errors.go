package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/llm"
	"github.com/alexanderramin/braindump/internal/repository"
	"github.com/alexanderramin/braindump/internal/service"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a use-case error to its HTTP status and error code.
// Internal errors keep a generic message.
func statusFor(err error) (int, string, string) {
	if pe, ok := app.AsPlanError(err); ok {
		return http.StatusBadRequest, string(pe.Code), pe.Message
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "not found"
	case errors.Is(err, service.ErrGenerationInProgress):
		return http.StatusConflict, "GENERATION_IN_PROGRESS", err.Error()
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", err.Error()
	case errors.Is(err, llm.ErrOllamaUnavailable),
		errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrInvalidOutput),
		errors.Is(err, llm.ErrRetryExhausted):
		return http.StatusBadGateway, "LLM_FAILURE", err.Error()
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	status, code, msg := statusFor(err)
	writeError(w, status, code, msg)
}
