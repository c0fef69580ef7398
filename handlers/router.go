// handlers/router.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter registers every route of the dashboard.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/", h.DashboardPageHandler).Methods(http.MethodGet)

	r.HandleFunc("/api/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/schema", h.SchemaHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/defaults", h.DefaultsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/history", h.HistoryHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/dataset", h.DatasetHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/figure", h.FigureHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/series", h.SeriesHandler).Methods(http.MethodPost)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method "+req.Method+" is not allowed on "+req.URL.Path)
	})
	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("HTTP: %s %s (%s)\n", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
