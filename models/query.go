// models/query.go
package models

import "time"

// QuerySpec is what one Update action asks for.
type QuerySpec struct {
	Start    time.Time
	End      time.Time
	Regions  []string
	Scalings []string
}

// DataVariable is one filter dimension of a data request.
type DataVariable struct {
	Code   string   `json:"code"`
	Values []string `json:"values"`
}

// DataRequest is the JSON body of POST /v1/data on the statistics API.
type DataRequest struct {
	Lang              string         `json:"lang"`
	Table             string         `json:"table"`
	Format            string         `json:"format"`
	ValuePresentation string         `json:"valuePresentation"`
	Variables         []DataVariable `json:"variables"`
}

// TableInfoRequest is the JSON body of POST /v1/tableinfo.
type TableInfoRequest struct {
	Table  string `json:"table"`
	Format string `json:"format"`
	Lang   string `json:"lang"`
}
