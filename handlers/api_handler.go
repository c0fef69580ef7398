// handlers/api_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gewnthar/covidash/charts"
	"github.com/gewnthar/covidash/models"
)

// maxRequestBytes bounds request bodies; a figure request carries a whole dataset.
const maxRequestBytes = 16 << 20

// DatasetHandler is the Update action.
// Expects POST /api/dataset with {"regions": [...], "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD"}.
func (h *Handler) DatasetHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DatasetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	log.Printf("Handler: Received dataset request for regions %v, %s to %s\n", req.Regions, req.StartDate, req.EndDate)

	table, err := h.svc.Dataset(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, table)
}

func decodeFigureRequest(w http.ResponseWriter, r *http.Request) (models.FigureRequest, bool) {
	var req models.FigureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}

// FigureHandler renders a dataset for the chosen scaling and mode.
// Expects POST /api/figure?format=svg|png with {"dataset": ..., "scaling": "50", "mode": "total"}.
func (h *Handler) FigureHandler(w http.ResponseWriter, r *http.Request) {
	format, err := charts.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req, ok := decodeFigureRequest(w, r)
	if !ok {
		return
	}

	fig, err := h.svc.Figure(&req.Dataset, req.Scaling, req.Mode)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	// Render into a buffer so a failed render can still send a JSON error.
	var buf bytes.Buffer
	if err := charts.Render(&buf, fig, format); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// SeriesHandler returns the plotted series as JSON. Same body as FigureHandler.
func (h *Handler) SeriesHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFigureRequest(w, r)
	if !ok {
		return
	}
	series, err := h.svc.Series(&req.Dataset, req.Scaling, req.Mode)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, series)
}

// SchemaHandler returns the table metadata loaded at startup.
func (h *Handler) SchemaHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.svc.Schema())
}

// DefaultsHandler returns the initial UI state.
func (h *Handler) DefaultsHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.svc.Defaults())
}

// HistoryHandler lists recent Update actions when the query log is enabled.
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.History(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// HealthHandler reports liveness and, when configured, database reachability.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			log.Printf("Health check failed: DB ping error: %v", err)
			respondWithJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "database connection error"})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "covid dashboard is healthy"})
}
