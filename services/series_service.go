// services/series_service.go
package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gewnthar/covidash/models"
)

// Display modes.
const (
	ModeTotal = "total"
	ModeNew   = "new"
)

// ErrInvalidMode is returned for a display mode other than total or new.
var ErrInvalidMode = errors.New("invalid display mode")

// ExtractSeries returns one series per distinct region in table, in order of
// first appearance, using only rows of scalingCode. In ModeNew each series is
// the day-over-day difference with the first point dropped, so a region with
// n points yields max(0, n-1).
func ExtractSeries(table *models.ObservationTable, scalingCode, mode string) ([]models.SeriesView, error) {
	if mode != ModeTotal && mode != ModeNew {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if table == nil {
		return []models.SeriesView{}, nil
	}

	byRegion := make(map[string][]models.Point)
	for _, row := range table.Rows {
		if row.Scaling != scalingCode {
			continue
		}
		byRegion[row.Region] = append(byRegion[row.Region], models.Point{Date: row.Date, Value: row.Value})
	}

	regions := table.Regions()
	series := make([]models.SeriesView, 0, len(regions))
	for _, region := range regions {
		points := byRegion[region]
		sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
		if mode == ModeNew {
			points = differences(points)
		}
		if points == nil {
			points = []models.Point{}
		}
		series = append(series, models.SeriesView{Region: region, Label: region, Points: points})
	}
	return series, nil
}

// differences returns points[i].Value - points[i-1].Value aligned to
// points[i].Date for i >= 1. A missing operand gives a missing difference.
func differences(points []models.Point) []models.Point {
	if len(points) < 2 {
		return nil
	}
	out := make([]models.Point, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		out = append(out, models.Point{
			Date:  points[i].Date,
			Value: points[i].Value - points[i-1].Value,
		})
	}
	return out
}
