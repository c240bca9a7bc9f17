package middleware

import (
	"encoding/json"
	"net/http"
)

// respondError writes the standard JSON error body
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
