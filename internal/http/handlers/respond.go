package handlers

import (
	"encoding/json"
	"net/http"
)

// hookResponse is the envelope the provider expects on webhook delivery.
type hookResponse struct {
	Success    bool `json:"success"`
	Response   any  `json:"response"`
	StatusCode int  `json:"status_code"`
}

type hookError struct {
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
	ErrorResponse string `json:"error_response"`
}

func writeHookOK(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, hookResponse{
		Success:    true,
		Response:   message,
		StatusCode: http.StatusOK,
	})
}

func writeHookFailed(w http.ResponseWriter, message, cause string) {
	writeJSON(w, http.StatusBadRequest, hookResponse{
		Success: false,
		Response: hookError{
			ErrorCode:     http.StatusBadRequest,
			ErrorMessage:  message,
			ErrorResponse: cause,
		},
		StatusCode: http.StatusBadRequest,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
