// services/dashboard_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gewnthar/covidash/charts"
	"github.com/gewnthar/covidash/config"
	"github.com/gewnthar/covidash/models"
	"github.com/gewnthar/covidash/statbank"
	"github.com/google/uuid"
)

// TableFetcher runs one data request against the statistics API.
type TableFetcher interface {
	FetchTable(ctx context.Context, payload models.DataRequest) (*models.ObservationTable, error)
}

// QueryLog persists Update actions.
type QueryLog interface {
	SaveQueryLogEntry(ctx context.Context, entry models.QueryLogEntry) error
	RecentQueryLogEntries(ctx context.Context, limit int) ([]models.QueryLogEntry, error)
}

// DashboardService runs the query/reshape pipeline against a schema that was
// loaded once at startup. It holds no per-request state.
type DashboardService struct {
	schema   *models.TableSchema
	fetcher  TableFetcher
	opts     statbank.RequestOptions
	defaults config.DashboardConfig
	history  QueryLog // nil when the query log is disabled
	now      func() time.Time
}

// NewDashboardService wires the pipeline. history may be nil.
func NewDashboardService(schema *models.TableSchema, fetcher TableFetcher, opts statbank.RequestOptions, defaults config.DashboardConfig, history QueryLog) *DashboardService {
	return &DashboardService{
		schema:   schema,
		fetcher:  fetcher,
		opts:     opts,
		defaults: defaults,
		history:  history,
		now:      time.Now,
	}
}

// Schema returns the table metadata.
func (s *DashboardService) Schema() *models.TableSchema { return s.schema }

// Dataset is the Update action: it fetches every scaling measure for the
// selected regions and date range so later option changes need no refetch.
func (s *DashboardService) Dataset(ctx context.Context, req models.DatasetRequest) (*models.ObservationTable, error) {
	start, err := time.Parse(statbank.DisplayLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD: %v", ErrInvalidRequest, err)
	}
	end, err := time.Parse(statbank.DisplayLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD: %v", ErrInvalidRequest, err)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start_date %s is after end_date %s", ErrInvalidRequest, req.StartDate, req.EndDate)
	}

	spec := models.QuerySpec{
		Start:    start,
		End:      end,
		Regions:  req.Regions,
		Scalings: s.schema.ScalingCodes(),
	}
	// Only the published span can contribute dates; walking beyond it is wasted work.
	query := spec
	query.Start, query.End = s.clampToPublished(start, end)
	payload := statbank.BuildRequest(query, s.schema.ValidDates, s.opts)
	dates := payload.Variables[2].Values
	log.Printf("Service: Fetching %d regions over %d published dates (%s to %s)\n",
		len(spec.Regions), len(dates), req.StartDate, req.EndDate)

	table, err := s.fetcher.FetchTable(ctx, payload)
	s.record(ctx, spec, len(dates), table, err)
	if err != nil {
		return nil, err
	}
	log.Printf("Service: Dataset ready with %d rows for regions %v\n", len(table.Rows), table.Regions())
	return table, nil
}

// Series extracts labelled series from a dataset for one scaling measure.
func (s *DashboardService) Series(table *models.ObservationTable, scaling, mode string) ([]models.SeriesView, error) {
	if !s.schema.HasScaling(scaling) {
		return nil, fmt.Errorf("%w: unknown scaling measure %q", ErrInvalidRequest, scaling)
	}
	series, err := ExtractSeries(table, scaling, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	for i := range series {
		series[i].Label = s.schema.RegionLabel(series[i].Region)
	}
	return series, nil
}

// Figure builds the chart for a dataset and the current display options.
func (s *DashboardService) Figure(table *models.ObservationTable, scaling, mode string) (charts.Figure, error) {
	series, err := s.Series(table, scaling, mode)
	if err != nil {
		return charts.Figure{}, err
	}

	labels := make([]string, 0, len(series))
	lines := make([]charts.Line, 0, len(series))
	for _, sv := range series {
		labels = append(labels, sv.Label)
		lines = append(lines, charts.Line{Name: sv.Label, Points: sv.Points})
	}

	return charts.Figure{
		Title:  "Cases for: " + strings.Join(labels, " - "),
		XLabel: "Date",
		YLabel: s.schema.ScalingLabel(scaling),
		Lines:  lines,
	}, nil
}

// clampToPublished narrows [start, end] to the first and last published
// dates. The result may be an empty range.
func (s *DashboardService) clampToPublished(start, end time.Time) (time.Time, time.Time) {
	n := len(s.schema.ValidDates)
	if n == 0 {
		return start, end
	}
	first, err := statbank.DecodeDate(s.schema.ValidDates[0])
	if err != nil {
		return start, end
	}
	last, err := statbank.DecodeDate(s.schema.ValidDates[n-1])
	if err != nil {
		return start, end
	}
	if start.Before(first) {
		start = first
	}
	if end.After(last) {
		end = last
	}
	return start, end
}

// Defaults returns the initial UI state, clamped to what the table offers.
func (s *DashboardService) Defaults() models.DashboardDefaults {
	d := models.DashboardDefaults{Mode: s.defaults.DefaultMode}
	if d.Mode != ModeTotal && d.Mode != ModeNew {
		d.Mode = ModeTotal
	}

	if n := len(s.schema.ValidDates); n > 0 {
		d.MinDate, _ = statbank.DisplayDate(s.schema.ValidDates[0])
		d.MaxDate, _ = statbank.DisplayDate(s.schema.ValidDates[n-1])
	}
	d.EndDate = d.MaxDate
	d.StartDate = s.defaults.DefaultStart
	if d.StartDate == "" || d.StartDate < d.MinDate || d.StartDate > d.MaxDate {
		d.StartDate = d.MinDate
	}

	for _, r := range s.defaults.DefaultRegions {
		if s.schema.HasRegion(r) {
			d.Regions = append(d.Regions, r)
		}
	}
	if len(d.Regions) == 0 && len(s.schema.Regions) > 0 {
		d.Regions = []string{s.schema.Regions[0].Code}
	}

	d.Scaling = s.defaults.DefaultScaling
	if !s.schema.HasScaling(d.Scaling) && len(s.schema.Scalings) > 0 {
		d.Scaling = s.schema.Scalings[0].Code
	}
	return d
}

// History returns the most recent Update actions.
func (s *DashboardService) History(ctx context.Context) ([]models.QueryLogEntry, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	limit := s.defaults.HistoryLimit
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.history.RecentQueryLogEntries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read query history: %w", err)
	}
	return entries, nil
}

// record writes a query log entry. Failures are logged and otherwise ignored.
func (s *DashboardService) record(ctx context.Context, spec models.QuerySpec, dateCount int, table *models.ObservationTable, fetchErr error) {
	if s.history == nil {
		return
	}
	entry := models.QueryLogEntry{
		ID:        uuid.NewString(),
		Regions:   append([]string{}, spec.Regions...),
		StartDate: spec.Start,
		EndDate:   spec.End,
		DateCount: dateCount,
		Outcome:   statbank.Kind(fetchErr),
		CreatedAt: s.now().UTC(),
	}
	if table != nil {
		entry.RowCount = len(table.Rows)
	}
	if err := s.history.SaveQueryLogEntry(ctx, entry); err != nil {
		log.Printf("ERROR Service: Failed to save query log entry %s: %v\n", entry.ID, err)
	}
}
