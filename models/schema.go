// models/schema.go
package models

// Option is one selectable value of a table variable, e.g. a commune or a
// scaling measure.
type Option struct {
	Code  string `json:"value"`
	Label string `json:"label"`
}

// TableSchema is the metadata of the statistics table. It is loaded once at
// startup and only read afterwards.
type TableSchema struct {
	Table      string   `json:"table"`
	Title      string   `json:"title"`
	Scalings   []Option `json:"scalings"`
	Regions    []Option `json:"regions"`
	ValidDates []string `json:"valid_dates"` // Date identifiers, e.g. "2021M03D06", ascending
}

// ScalingLabel returns the label for a scaling code, or the code itself when
// it is unknown.
func (s *TableSchema) ScalingLabel(code string) string {
	return lookupLabel(s.Scalings, code)
}

// RegionLabel returns the label for a region code, or the code itself when
// it is unknown.
func (s *TableSchema) RegionLabel(code string) string {
	return lookupLabel(s.Regions, code)
}

// HasScaling reports whether code is one of the table's scaling measures.
func (s *TableSchema) HasScaling(code string) bool {
	for _, o := range s.Scalings {
		if o.Code == code {
			return true
		}
	}
	return false
}

// HasRegion reports whether code is one of the table's regions.
func (s *TableSchema) HasRegion(code string) bool {
	for _, o := range s.Regions {
		if o.Code == code {
			return true
		}
	}
	return false
}

// ScalingCodes returns every scaling code in schema order.
func (s *TableSchema) ScalingCodes() []string {
	codes := make([]string, 0, len(s.Scalings))
	for _, o := range s.Scalings {
		codes = append(codes, o.Code)
	}
	return codes
}

func lookupLabel(opts []Option, code string) string {
	for _, o := range opts {
		if o.Code == code {
			return o.Label
		}
	}
	return code
}
