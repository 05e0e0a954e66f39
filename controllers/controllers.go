package controllers

import (
	"encoding/json"
	"net/http"

	"amora_server/apperrors"
)

// writeJSON sends a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// decodeBody parses the request body into dst, reporting a validation
// failure on malformed JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apperrors.Write(w, apperrors.Validation("INVALID_BODY", "invalid request body"))
		return false
	}
	return true
}
