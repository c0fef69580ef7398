// models/observation.go
package models

import "time"

// ObservationRow mirrors one line of the semicolon separated data response.
// CSV tags match the upstream header exactly.
type ObservationRow struct {
	Scaling string `csv:"AKTP"`
	Region  string `csv:"KOMK"`
	Date    string `csv:"TID"`     // Date identifier, e.g. "2021M03D06"
	Value   string `csv:"INDHOLD"` // ".." marks a missing value
}

// Observation is a parsed row. Value is missing when upstream has no figure.
type Observation struct {
	Scaling string    `json:"scaling"`
	Region  string    `json:"region"`
	Date    time.Time `json:"date"`
	Value   Measure   `json:"value"`
}

// ObservationTable is the result of one data query. For a fixed
// (scaling, region) pair rows ascend by date without duplicates.
type ObservationTable struct {
	Rows []Observation `json:"rows"`
}

// Regions returns the distinct region codes in order of first appearance.
func (t *ObservationTable) Regions() []string {
	seen := make(map[string]bool)
	var regions []string
	for _, r := range t.Rows {
		if !seen[r.Region] {
			seen[r.Region] = true
			regions = append(regions, r.Region)
		}
	}
	return regions
}

// Point is one plotted (date, value) pair.
type Point struct {
	Date  time.Time `json:"date"`
	Value Measure   `json:"value"`
}

// SeriesView is one line on the chart.
type SeriesView struct {
	Region string  `json:"region"`
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}
