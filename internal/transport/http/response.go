package transporthttp

import (
	"encoding/json"
	"net/http"
)

// errorBody is the failure shape the landing page checks (ok=false).
type errorBody struct {
	OK     bool                `json:"ok"`
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string][]string) {
	writeJSON(w, status, errorBody{OK: false, Error: msg, Fields: fields})
}
