package domain

import "time"

// RawForecastRecord is a single forecast element exactly as decoded from the
// upstream JSON. Field names and value types vary between upstream versions,
// so it stays an untyped map until normalization.
type RawForecastRecord map[string]any

// SunPosition holds the sun's horizontal coordinates in degrees.
type SunPosition struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
}

// ForecastPoint is one validated forecast sample. Points are constructed only
// by [NormalizeRecord] and never mutated afterwards: a point always carries a
// resolvable UTC instant and a finite non-negative UV value.
type ForecastPoint struct {
	Time        time.Time    `json:"time"`
	UVIndex     float64      `json:"uv_index"`
	SunPosition *SunPosition `json:"sun_position,omitempty"`
}

// CanonicalTime returns the point's instant in its canonical serialized form,
// an RFC 3339 UTC string. Sub-second precision is preserved, so normalizing
// the canonical string again resolves the same instant.
func (p ForecastPoint) CanonicalTime() string {
	return p.Time.UTC().Format(time.RFC3339Nano)
}

// ForecastSeries is an ordered sequence of forecast points, non-decreasing by
// time. Equal timestamps are allowed and keep their relative input order.
type ForecastSeries []ForecastPoint

// ChartPoint is a rendering-ready pair: a human-readable local time label and
// the UV value at that time.
type ChartPoint struct {
	Label string    `json:"label"`
	Time  time.Time `json:"time"`
	UV    float64   `json:"uv"`
}

// Segment is a contiguous run of chart points sharing one severity category.
// Adjacent segments of differing category overlap by one shared boundary
// point so the rendered multi-color line stays continuous.
type Segment struct {
	Category Category     `json:"category"`
	Points   []ChartPoint `json:"points"`
}

// Category is a step classification of a UV index value.
type Category string

// Severity categories, from the WHO UV index scale.
const (
	CategoryLow      Category = "low"
	CategoryModerate Category = "moderate"
	CategoryHigh     Category = "high"
	CategoryVeryHigh Category = "very_high"
	CategoryExtreme  Category = "extreme"
)

// CategoryFor classifies a UV index value. Total over the reals: values
// below zero fall into "low" and values above the nominal ceiling stay
// "extreme".
func CategoryFor(v float64) Category {
	switch {
	case v < 3:
		return CategoryLow
	case v < 6:
		return CategoryModerate
	case v < 8:
		return CategoryHigh
	case v < 11:
		return CategoryVeryHigh
	default:
		return CategoryExtreme
	}
}
