// statbank/request.go
package statbank

import (
	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/models"
)

// RequestOptions carries the table-level settings of a data request.
type RequestOptions struct {
	Lang              string
	Table             string
	ValuePresentation string
	ScalingVariable   string
	RegionVariable    string
	TimeVariable      string
}

// OptionsFromConfig builds RequestOptions from the statbank config section.
func OptionsFromConfig(cfg config.StatbankConfig) RequestOptions {
	return RequestOptions{
		Lang:              cfg.Lang,
		Table:             cfg.Table,
		ValuePresentation: cfg.ValuePresentation,
		ScalingVariable:   cfg.ScalingVariable,
		RegionVariable:    cfg.RegionVariable,
		TimeVariable:      cfg.TimeVariable,
	}
}

// BuildRequest assembles the data request for spec. Dates outside validDates
// are dropped. Every value list is non-nil so it encodes as [] rather than
// null.
func BuildRequest(spec models.QuerySpec, validDates []string, opts RequestOptions) models.DataRequest {
	return models.DataRequest{
		Lang:              opts.Lang,
		Table:             opts.Table,
		Format:            "CSV",
		ValuePresentation: opts.ValuePresentation,
		Variables: []models.DataVariable{
			{Code: opts.ScalingVariable, Values: nonNil(spec.Scalings)},
			{Code: opts.RegionVariable, Values: nonNil(spec.Regions)},
			{Code: opts.TimeVariable, Values: ResolveDates(spec.Start, spec.End, validDates)},
		},
	}
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
