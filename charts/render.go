// Package charts draws dashboard figures with go-chart.
package charts

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/gewnthar/covidash/models"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 1100
	DefaultHeight = 520
)

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png"; empty means svg.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType is the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Line is one named series of the figure.
type Line struct {
	Name   string
	Points []models.Point
}

// Figure is everything needed to draw one chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Lines  []Line
	Width  int
	Height int
}

// Plotly's default qualitative palette.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

// invisible is fully transparent but not the zero Color, which go-chart
// would replace with a default series color.
var invisible = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// lineStyle draws lines with markers.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

// Render draws fig to w. Missing values are skipped. A figure without any
// plottable point is drawn as an empty "No data" chart.
func Render(w io.Writer, fig Figure, format Format) error {
	series, xr, yr := buildSeries(fig.Lines)

	title := fig.Title
	placeholder := len(series) == 0
	if placeholder {
		title = "No data"
		series, xr, yr = placeholderSeries()
	}

	ch := chart.Chart{
		Title:      title,
		Width:      orDefault(fig.Width, DefaultWidth),
		Height:     orDefault(fig.Height, DefaultHeight),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: fig.XLabel, ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:      chart.YAxis{Name: fig.YLabel},
		Series:     series,
	}
	// A nil *ContinuousRange inside the Range interface is not nil, so only
	// assign ranges that exist.
	if xr != nil {
		ch.XAxis.Range = xr
	}
	if yr != nil {
		ch.YAxis.Range = yr
	}
	if !placeholder {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	provider := chart.SVG
	if format == FormatPNG {
		provider = chart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart %q: %w", title, err)
	}
	return nil
}

// buildSeries converts lines into time series and returns explicit axis
// ranges when the data range would be zero wide.
func buildSeries(lines []Line) ([]chart.Series, *chart.ContinuousRange, *chart.ContinuousRange) {
	var series []chart.Series
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)

	for i, line := range lines {
		var xs []time.Time
		var ys []float64
		for _, p := range line.Points {
			v := float64(p.Value)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xs = append(xs, p.Date)
			ys = append(ys, v)

			x := chart.TimeToFloat64(p.Date)
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, v), math.Max(maxY, v)
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name:    line.Name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(palette[i%len(palette)]),
		})
	}
	if len(series) == 0 {
		return nil, nil, nil
	}

	var xr, yr *chart.ContinuousRange
	if maxX == minX {
		half := float64(12 * time.Hour)
		xr = &chart.ContinuousRange{Min: minX - half, Max: maxX + half}
	}
	if maxY == minY {
		pad := math.Max(1, math.Abs(maxY)*0.1)
		yr = &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
	}
	return series, xr, yr
}

// placeholderSeries is an invisible two-point series that gives go-chart a
// valid range to draw empty axes on.
func placeholderSeries() ([]chart.Series, *chart.ContinuousRange, *chart.ContinuousRange) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	xs := []time.Time{end.AddDate(0, 0, -7), end}
	series := []chart.Series{chart.TimeSeries{
		XValues: xs,
		YValues: []float64{0, 1},
		Style:   chart.Style{StrokeColor: invisible},
	}}
	xr := &chart.ContinuousRange{Min: chart.TimeToFloat64(xs[0]), Max: chart.TimeToFloat64(xs[1])}
	yr := &chart.ContinuousRange{Min: 0, Max: 1}
	return series, xr, yr
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
