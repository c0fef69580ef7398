package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gewnthar/covidash/models"
)

var d0 = time.Date(2021, 3, 6, 0, 0, 0, 0, time.UTC)

func obs(scaling, region string, dayOffset int, v float64) models.Observation {
	return models.Observation{Scaling: scaling, Region: region, Date: d0.AddDate(0, 0, dayOffset), Value: models.Measure(v)}
}

func values(points []models.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = float64(p.Value)
	}
	return out
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExtractSeries_TotalAndNew(t *testing.T) {
	table := &models.ObservationTable{Rows: []models.Observation{
		obs("50", "101", 0, 10),
		obs("50", "101", 1, 12),
		obs("50", "101", 3, 15),
	}}

	total, err := ExtractSeries(table, "50", ModeTotal)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if len(total) != 1 || total[0].Region != "101" || !equalFloats(values(total[0].Points), []float64{10, 12, 15}) {
		t.Fatalf("total = %+v", total)
	}

	newCases, err := ExtractSeries(table, "50", ModeNew)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got := newCases[0].Points
	if !equalFloats(values(got), []float64{2, 3}) {
		t.Fatalf("new = %v", values(got))
	}
	if !got[0].Date.Equal(d0.AddDate(0, 0, 1)) || !got[1].Date.Equal(d0.AddDate(0, 0, 3)) {
		t.Fatalf("new values must align to the last two dates: %+v", got)
	}
}

func TestExtractSeries_NewLengthIsCountMinusOne(t *testing.T) {
	table := &models.ObservationTable{}
	counts := map[string]int{"000": 0, "101": 1, "147": 2, "751": 7}
	// region 000 only has rows for another scaling measure
	table.Rows = append(table.Rows, obs("55", "000", 0, 1), obs("55", "000", 1, 2))
	for region, n := range counts {
		for i := 0; i < n; i++ {
			table.Rows = append(table.Rows, obs("50", region, i, float64(i*i)))
		}
	}

	series, err := ExtractSeries(table, "50", ModeNew)
	if err != nil {
		t.Fatalf("ExtractSeries: %v", err)
	}
	if len(series) != len(counts) {
		t.Fatalf("want one series per region, got %d", len(series))
	}
	for _, s := range series {
		want := counts[s.Region] - 1
		if want < 0 {
			want = 0
		}
		if len(s.Points) != want {
			t.Errorf("region %s: len %d want %d", s.Region, len(s.Points), want)
		}
		if s.Points == nil {
			t.Errorf("region %s: points should be non-nil", s.Region)
		}
	}
}

func TestExtractSeries_SortsByDateAndKeepsRegionOrder(t *testing.T) {
	table := &models.ObservationTable{Rows: []models.Observation{
		obs("50", "147", 2, 30),
		obs("50", "101", 0, 1),
		obs("50", "147", 0, 10),
		obs("50", "147", 1, 15),
	}}
	series, err := ExtractSeries(table, "50", ModeNew)
	if err != nil {
		t.Fatal(err)
	}
	if series[0].Region != "147" || series[1].Region != "101" {
		t.Fatalf("region order = %s, %s", series[0].Region, series[1].Region)
	}
	if !equalFloats(values(series[0].Points), []float64{5, 15}) {
		t.Fatalf("147 new = %v", values(series[0].Points))
	}
}

func TestExtractSeries_MissingPropagates(t *testing.T) {
	table := &models.ObservationTable{Rows: []models.Observation{
		obs("50", "101", 0, 1),
		obs("50", "101", 1, math.NaN()),
		obs("50", "101", 2, 4),
	}}
	series, _ := ExtractSeries(table, "50", ModeNew)
	if !series[0].Points[0].Value.IsMissing() || !series[0].Points[1].Value.IsMissing() {
		t.Fatalf("differences touching a missing value must be missing: %v", values(series[0].Points))
	}
}

func TestExtractSeries_InvalidMode(t *testing.T) {
	_, err := ExtractSeries(&models.ObservationTable{}, "50", "weekly")
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("want ErrInvalidMode, got %v", err)
	}
}

func TestExtractSeries_NilTable(t *testing.T) {
	series, err := ExtractSeries(nil, "50", ModeTotal)
	if err != nil || series == nil || len(series) != 0 {
		t.Fatalf("got %#v, %v", series, err)
	}
}
