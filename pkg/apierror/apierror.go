package apierror

import (
	"encoding/json"
	"net/http"
)

// APIError is the error envelope returned by the HTTP surface.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ToJSON serializes the error envelope.
func (e *APIError) ToJSON() []byte {
	data, err := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   e,
	})
	if err != nil {
		return []byte(`{"success":false,"error":{"code":"INTERNAL","message":"internal server error"}}`)
	}
	return data
}

// BadRequest returns a 400 error.
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// NotFound returns a 404 error.
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

// InternalError returns a 500 error.
func InternalError(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: message}
}
