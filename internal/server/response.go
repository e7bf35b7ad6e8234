package server

import (
	"encoding/json"
	"net/http"

	"github.com/five82/siswa/internal/api"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.ErrorEnvelope{Error: api.ErrorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
