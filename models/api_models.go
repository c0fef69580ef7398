// models/api_models.go
package models

import "time"

// DatasetRequest is the JSON body for POST /api/dataset.
type DatasetRequest struct {
	Regions   []string `json:"regions"`
	StartDate string   `json:"start_date"` // Expected format "YYYY-MM-DD"
	EndDate   string   `json:"end_date"`   // Expected format "YYYY-MM-DD"
}

// FigureRequest is the JSON body for POST /api/figure and /api/series.
type FigureRequest struct {
	Dataset ObservationTable `json:"dataset"`
	Scaling string           `json:"scaling"`
	Mode    string           `json:"mode"`
}

// QueryLogEntry records one Update action.
type QueryLogEntry struct {
	ID         string    `db:"id" json:"id"`
	Regions    []string  `db:"-" json:"regions"`
	RegionsCSV string    `db:"regions" json:"-"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	DateCount  int       `db:"date_count" json:"date_count"`
	RowCount   int       `db:"row_count" json:"row_count"`
	Outcome    string    `db:"outcome" json:"outcome"` // "ok" or the error kind
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DashboardDefaults is the UI state shown before the first Update.
type DashboardDefaults struct {
	Regions   []string `json:"regions"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	MinDate   string   `json:"min_date"`
	MaxDate   string   `json:"max_date"`
	Scaling   string   `json:"scaling"`
	Mode      string   `json:"mode"`
}
