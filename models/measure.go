// models/measure.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
)

// Measure is a figure that may be missing. Missing is NaN in memory and null
// in JSON.
type Measure float64

// Missing is the Measure used for ".." cells.
func Missing() Measure { return Measure(math.NaN()) }

func (m Measure) IsMissing() bool { return math.IsNaN(float64(m)) }

func (m Measure) MarshalJSON() ([]byte, error) {
	if m.IsMissing() || math.IsInf(float64(m), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

func (m *Measure) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*m = Missing()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Measure(f)
	return nil
}
