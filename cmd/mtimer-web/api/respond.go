package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mtimer/mtimer-go/pkg/countdown"
	"github.com/mtimer/mtimer-go/pkg/service"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// writeError maps service and validation errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request",
			Fields: verr.Fields,
		})
	case errors.Is(err, countdown.ErrTimerNotFound):
		writeJSONError(w, http.StatusNotFound, "Timer not found", err.Error())
	case errors.Is(err, countdown.ErrTimerRunning):
		writeJSONError(w, http.StatusConflict, "Timer is running", err.Error())
	case errors.Is(err, service.ErrNotStarted):
		writeJSONError(w, http.StatusServiceUnavailable, "Service not running", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
