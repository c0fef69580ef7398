// statbank/csv_parser.go
package statbank

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/gewnthar/covidash/models"
	"github.com/jszwec/csvutil"
)

var requiredColumns = []string{"AKTP", "KOMK", "TID", "INDHOLD"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FetchTable sends a data request and parses the semicolon separated answer.
func (c *Client) FetchTable(ctx context.Context, payload models.DataRequest) (*models.ObservationTable, error) {
	body, contentType, err := c.post(ctx, "/data", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s data: %w", payload.Table, err)
	}
	if strings.Contains(strings.ToLower(contentType), "json") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return nil, fmt.Errorf("%w: expected CSV, got %s", ErrMalformedResponse, upstreamErrorText(body, contentType))
	}
	return ParseObservationCsv(bytes.NewReader(body))
}

// ParseObservationCsv reads the data response. The header must contain
// AKTP, KOMK, TID and INDHOLD; any shape problem is ErrMalformedResponse.
func ParseObservationCsv(reader io.Reader) (*models.ObservationTable, error) {
	br := bufio.NewReader(reader)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(br)
	csvReader.Comma = ';'
	csvReader.TrimLeadingSpace = true

	decoder, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty data response", ErrMalformedResponse)
		}
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", ErrMalformedResponse, err)
	}
	if err := checkHeader(decoder.Header()); err != nil {
		return nil, err
	}

	table := &models.ObservationTable{Rows: []models.Observation{}}
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		var row models.ObservationRow
		if err := decoder.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedResponse, line, err)
		}

		obs, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedResponse, line, err)
		}

		key := obs.Scaling + "\x00" + obs.Region + "\x00" + row.Date
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate date %s for %s/%s",
				ErrMalformedResponse, line, row.Date, obs.Scaling, obs.Region)
		}
		seen[key] = struct{}{}
		table.Rows = append(table.Rows, obs)
	}

	log.Printf("Statbank: Parsed %d observations from CSV.\n", len(table.Rows))
	return table, nil
}

func checkHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range requiredColumns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: CSV header %v lacks %s", ErrMalformedResponse, header, strings.Join(missing, ", "))
	}
	return nil
}

func parseRow(row models.ObservationRow) (models.Observation, error) {
	date, err := DecodeDate(strings.TrimSpace(row.Date))
	if err != nil {
		return models.Observation{}, err
	}
	value, err := parseValue(row.Value)
	if err != nil {
		return models.Observation{}, err
	}
	return models.Observation{
		Scaling: strings.TrimSpace(row.Scaling),
		Region:  strings.TrimSpace(row.Region),
		Date:    date,
		Value:   value,
	}, nil
}

// parseValue accepts plain numbers, a decimal comma, and the upstream
// missing-value markers.
func parseValue(raw string) (models.Measure, error) {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "..", ".", "-":
		return models.Missing(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		f, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	return models.Measure(f), nil
}
