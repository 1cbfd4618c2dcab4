package rest

import (
	"encoding/json"
	"net/http"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithRequestError carries validation failures of the friend-request
// workflow under the stable "request" key, so clients can branch on it.
func respondWithRequestError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"request": message})
}

func respondWithValidationError(errors map[string]string, w http.ResponseWriter) {
	respondWithJSON(w, http.StatusBadRequest, errors)
}
