// Package httputil provides JSON response helpers for the read-only
// snapshot API.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/nodeflow/nodeflow/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding failures past the header write can only be logged by the
	// caller's middleware; the status is already on the wire.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a JSON error response. Coded errors map to
// HTTP statuses; anything else is a 500 with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	body := errorBody{Code: string(code), Message: errors.UserMessage(err)}
	if code == "" {
		body.Code = string(errors.ErrCodeInternal)
		body.Message = "internal error"
	}
	WriteJSON(w, StatusFromCode(code), body)
}

// StatusFromCode maps an error code to an HTTP status.
func StatusFromCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound,
		errors.ErrCodeEdgeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
