// handlers/dashboard_handler.go
package handlers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gewnthar/covidash/models"
	"github.com/gewnthar/covidash/services"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Pinger reports whether an optional backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the dashboard page and its API.
type Handler struct {
	svc   *services.DashboardService
	title string
	store Pinger // nil when no database is configured
}

// NewHandler creates the HTTP handlers. store may be nil.
func NewHandler(svc *services.DashboardService, title string, store Pinger) *Handler {
	return &Handler{svc: svc, title: title, store: store}
}

type choice struct {
	Code     string
	Label    string
	Selected bool
}

type pageData struct {
	Title      string
	Regions    []choice
	Scalings   []choice
	Modes      []choice
	MinDate    string
	MaxDate    string
	StartDate  string
	EndDate    string
	DatasetURL string
	FigureURL  string
}

func choices(opts []models.Option, selected ...string) []choice {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	out := make([]choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, choice{Code: o.Code, Label: o.Label, Selected: want[o.Code]})
	}
	return out
}

// DashboardPageHandler renders the single page UI with the schema's options
// and the configured defaults.
func (h *Handler) DashboardPageHandler(w http.ResponseWriter, r *http.Request) {
	schema := h.svc.Schema()
	d := h.svc.Defaults()

	modes := []models.Option{
		{Code: services.ModeTotal, Label: "total"},
		{Code: services.ModeNew, Label: "new cases"},
	}
	data := pageData{
		Title:      h.title,
		Regions:    choices(schema.Regions, d.Regions...),
		Scalings:   choices(schema.Scalings, d.Scaling),
		Modes:      choices(modes, d.Mode),
		MinDate:    d.MinDate,
		MaxDate:    d.MaxDate,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		DatasetURL: "/api/dataset",
		FigureURL:  "/api/figure?format=svg",
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR Handler: Rendering dashboard page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
