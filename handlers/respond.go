// handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gewnthar/covidash/services"
	"github.com/gewnthar/covidash/statbank"
)

// respondWithJSON writes payload as JSON with the given status.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR Handler: Marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError logs and writes {"error": message, "kind": kind}.
func respondWithError(w http.ResponseWriter, code int, kind, message string) {
	log.Printf("Handler: API Error %d (%s): %s", code, kind, message)
	respondWithJSON(w, code, map[string]string{"error": message, "kind": kind})
}

// respondWithServiceError maps pipeline errors to HTTP statuses.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		respondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, services.ErrHistoryDisabled):
		respondWithError(w, http.StatusNotFound, "history_disabled", err.Error())
	case errors.Is(err, statbank.ErrUpstreamUnavailable), errors.Is(err, statbank.ErrMalformedResponse):
		respondWithError(w, http.StatusBadGateway, statbank.Kind(err), err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
