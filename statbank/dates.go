// statbank/dates.go
package statbank

import (
	"fmt"
	"time"
)

// DateIDLayout is the upstream encoding of a day, e.g. "2021M03D06".
const DateIDLayout = "2006M01D02"

// DisplayLayout is the calendar format used by the UI.
const DisplayLayout = "2006-01-02"

// EncodeDate turns a calendar day into a date identifier.
func EncodeDate(t time.Time) string {
	return t.Format(DateIDLayout)
}

// DecodeDate parses a date identifier into a UTC calendar day.
func DecodeDate(id string) (time.Time, error) {
	t, err := time.Parse(DateIDLayout, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date identifier %q: %w", id, err)
	}
	return t, nil
}

// DisplayDate converts a date identifier to YYYY-MM-DD.
func DisplayDate(id string) (string, error) {
	t, err := DecodeDate(id)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// ResolveDates returns the identifiers of every day in [start, end] that is
// also in validDates, ascending. The table is not published daily, so gaps
// are expected.
func ResolveDates(start, end time.Time, validDates []string) []string {
	valid := make(map[string]struct{}, len(validDates))
	for _, d := range validDates {
		valid[d] = struct{}{}
	}

	day := truncateDay(start)
	last := truncateDay(end)
	resolved := []string{}
	for !day.After(last) {
		id := EncodeDate(day)
		if _, ok := valid[id]; ok {
			resolved = append(resolved, id)
		}
		day = day.AddDate(0, 0, 1)
	}
	return resolved
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
