package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/rankine-core/internal/cycle"
	"github.com/nerrad567/rankine-core/internal/device"
	"github.com/nerrad567/rankine-core/internal/steam"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeNotFound      = "not_found"
	ErrCodeInternal      = "internal_error"
	ErrCodeValidation    = "validation_error"
	ErrCodeUnprocessable = "unprocessable_state"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// classifyError maps cycle, device and steam errors to a status and code.
//
//	invalid spec, bad device input, unsupported pair  → 400
//	unknown run                                       → 404
//	no steam state for the inputs                     → 422
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, cycle.ErrRunNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, cycle.ErrInvalidSpec),
		errors.Is(err, device.ErrInvalidParameter),
		errors.Is(err, device.ErrMissingInput):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, steam.ErrUnsupportedPair):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, steam.ErrInconsistentState), errors.Is(err, steam.ErrNoConvergence):
		return http.StatusUnprocessableEntity, ErrCodeUnprocessable
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// writeDomainError writes err with the status classifyError picks.
// Unclassified errors are logged and hidden behind a generic message.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		writeInternalError(w, "internal server error")
		return
	}
	writeError(w, status, code, err.Error())
}
