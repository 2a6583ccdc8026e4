package rest

import (
	"context"
	"encoding/json"
	"errors"
	"listing-service/internal/core/domain"
	"net/http"
)

// WriteJSONError отправляет ошибку в формате {"error": "..."}.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusForError сопоставляет ошибки ядра HTTP-статусам.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrToggleInProgress), errors.Is(err, domain.ErrInconsistentFavorite):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeUseCaseError отвечает статусом по ошибке. Для 401 добавляет адрес входа.
func writeUseCaseError(w http.ResponseWriter, err error, outcome domain.ToggleOutcome) {
	status := statusForError(err)
	resp := ErrorResponse{Error: err.Error(), Outcome: string(outcome)}
	switch status {
	case http.StatusUnauthorized:
		resp.LoginURL = domain.LoginRedirectURL
	case http.StatusInternalServerError:
		resp.Error = "Internal server error"
	}
	RespondWithJSON(w, status, resp)
}
