package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes a JSON error response with a machine-readable code
// clients can switch on (e.g. TOKEN_EXPIRED triggers a silent refresh).
func writeJSONError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
