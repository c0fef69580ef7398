// statbank/tableinfo.go
package statbank

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/gewnthar/covidash/models"
)

type tableInfoValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type tableInfoVariable struct {
	ID     string           `json:"id"`
	Text   string           `json:"text"`
	Time   bool             `json:"time"`
	Values []tableInfoValue `json:"values"`
}

type tableInfoResponse struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`
	Variables []tableInfoVariable `json:"variables"`
}

// LoadSchema fetches the table metadata: scaling measures, regions and the
// dates the table has figures for.
func (c *Client) LoadSchema(ctx context.Context) (*models.TableSchema, error) {
	log.Printf("Statbank: Loading table info for %s\n", c.opts.Table)

	body, _, err := c.post(ctx, "/tableinfo", models.TableInfoRequest{
		Table:  c.opts.Table,
		Format: "JSON",
		Lang:   c.opts.Lang,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load table info for %s: %w", c.opts.Table, err)
	}

	schema, err := ParseTableInfo(body, c.opts)
	if err != nil {
		return nil, err
	}
	log.Printf("Statbank: Table %s has %d scaling measures, %d regions, %d dates (%s to %s)\n",
		schema.Table, len(schema.Scalings), len(schema.Regions), len(schema.ValidDates),
		schema.ValidDates[0], schema.ValidDates[len(schema.ValidDates)-1])
	return schema, nil
}

// ParseTableInfo decodes a tableinfo body. Variables are looked up by id, so
// their order in the response does not matter; a missing or empty group is
// ErrMalformedResponse.
func ParseTableInfo(body []byte, opts RequestOptions) (*models.TableSchema, error) {
	var info tableInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: table info is not valid JSON: %v", ErrMalformedResponse, err)
	}

	byID := make(map[string]tableInfoVariable, len(info.Variables))
	for _, v := range info.Variables {
		byID[v.ID] = v
	}

	group := func(id string) ([]tableInfoValue, error) {
		v, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: table info has no variable %q", ErrMalformedResponse, id)
		}
		if len(v.Values) == 0 {
			return nil, fmt.Errorf("%w: table info variable %q has no values", ErrMalformedResponse, id)
		}
		return v.Values, nil
	}

	scalings, err := group(opts.ScalingVariable)
	if err != nil {
		return nil, err
	}
	regions, err := group(opts.RegionVariable)
	if err != nil {
		return nil, err
	}
	dates, err := group(opts.TimeVariable)
	if err != nil {
		return nil, err
	}

	schema := &models.TableSchema{
		Table:      info.ID,
		Title:      info.Text,
		Scalings:   toOptions(scalings),
		Regions:    toOptions(regions),
		ValidDates: make([]string, 0, len(dates)),
	}
	if schema.Table == "" {
		schema.Table = opts.Table
	}
	for _, d := range dates {
		if _, err := DecodeDate(d.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		schema.ValidDates = append(schema.ValidDates, d.ID)
	}
	// The id layout is fixed width, so lexical order is calendar order.
	sort.Strings(schema.ValidDates)
	for i := 1; i < len(schema.ValidDates); i++ {
		if schema.ValidDates[i] == schema.ValidDates[i-1] {
			return nil, fmt.Errorf("%w: table info lists date %s twice", ErrMalformedResponse, schema.ValidDates[i])
		}
	}
	return schema, nil
}

func toOptions(values []tableInfoValue) []models.Option {
	opts := make([]models.Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, models.Option{Code: v.ID, Label: v.Text})
	}
	return opts
}
