package handlers

import (
	"encoding/json"
	"net/http"
)

// PingHandler answers health probes with a static payload.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("content-type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"message": "pong"})
}
