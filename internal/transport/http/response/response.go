package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gacha-collector-bot/internal/domain"
	"gacha-collector-bot/pkg/apierror"
)

// envelope is the standard success wrapper.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// OK writes a 200 response with the standard envelope.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// JSON writes a response with the standard envelope and the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		log.Printf("[Response] Failed to encode response: %v", err)
	}
}

// Error writes an error response, mapping known error types to status codes.
func Error(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		// Use as-is.
	case errors.Is(err, domain.ErrNotFound):
		apiErr = apierror.NotFound(err.Error())
	default:
		log.Printf("[Response] Internal error: %v", err)
		apiErr = apierror.InternalError("internal server error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	w.Write(apiErr.ToJSON())
}
