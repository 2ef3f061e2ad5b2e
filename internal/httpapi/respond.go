package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorMessage struct {
	Msg string `json:"msg"`
}

// ErrorResponse is the uniform error payload: one entry per problem,
// field-level validation failures included.
type ErrorResponse struct {
	Errors []errorMessage `json:"errors"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msgs ...string) {
	resp := ErrorResponse{}
	for _, msg := range msgs {
		resp.Errors = append(resp.Errors, errorMessage{Msg: msg})
	}
	respondJSON(w, status, resp)
}

// respondServerError hides internals from the caller; details go to
// the log only.
func respondServerError(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, "Server error")
}
