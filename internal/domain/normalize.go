package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Accepted key spellings per logical field, tried in priority order. The
// upstream API has shipped all of these at one point or another.
var (
	timeKeys     = []string{"time", "timestamp", "datetime", "dateTime", "date", "ts", "dt", "uv_time"}
	uvKeys       = []string{"uv", "uvi", "uvIndex", "uv_index", "UV", "UVIndex", "value"}
	sunKeys      = []string{"sun_position", "sunPosition", "sun", "solar"}
	azimuthKeys  = []string{"azimuth", "az"}
	altitudeKeys = []string{"altitude", "alt", "elevation"}
)

// Magnitude cutoffs for numeric timestamps. Both bounds are inclusive for
// their bucket: exactly 1e9 is seconds, exactly 1e12 is milliseconds.
const (
	unixSecondsMin = 1e9
	unixMillisMin  = 1e12
)

// NormalizeRecord converts one raw forecast record into a validated
// ForecastPoint. It reports false when the record's timestamp cannot be
// unambiguously resolved or its UV value cannot be coerced to a finite
// non-negative number; callers treat false as a filter predicate, not an
// error.
func NormalizeRecord(raw RawForecastRecord) (ForecastPoint, bool) {
	ts, ok := resolveTimestamp(raw)
	if !ok {
		return ForecastPoint{}, false
	}

	uv, ok := resolveUV(raw)
	if !ok {
		return ForecastPoint{}, false
	}

	return ForecastPoint{
		Time:        ts,
		UVIndex:     uv,
		SunPosition: resolveSunPosition(raw),
	}, true
}

// resolveTimestamp finds the first accepted time-like field and resolves it
// to a UTC instant. Numeric values are bucketed by magnitude into Unix
// milliseconds or seconds; strings are parsed as RFC 3339, retrying with a
// UTC zone marker appended for zone-less values.
func resolveTimestamp(raw RawForecastRecord) (time.Time, bool) {
	v, ok := firstPresent(raw, timeKeys)
	if !ok {
		return time.Time{}, false
	}
	return resolveTimeValue(v)
}

// resolveTimeValue resolves a single time-like value in any of the accepted
// encodings.
func resolveTimeValue(v any) (time.Time, bool) {
	if s, isString := v.(string); isString {
		return parseTimeString(s)
	}

	n, ok := coerceFloat(v)
	if !ok {
		return time.Time{}, false
	}
	return timeFromUnixMagnitude(n)
}

func timeFromUnixMagnitude(v float64) (time.Time, bool) {
	switch {
	case v >= unixMillisMin:
		return time.UnixMilli(int64(v)).UTC(), true
	case v >= unixSecondsMin:
		return time.Unix(int64(v), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	// Some upstream versions omit the zone suffix; those values are UTC.
	if t, err := time.Parse(time.RFC3339, s+"Z"); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// resolveUV finds the first accepted UV field and coerces it to a finite
// non-negative number.
func resolveUV(raw RawForecastRecord) (float64, bool) {
	v, ok := firstPresent(raw, uvKeys)
	if !ok {
		return 0, false
	}
	uv, ok := coerceFloat(v)
	if !ok || uv < 0 {
		return 0, false
	}
	return uv, true
}

// resolveSunPosition extracts the optional nested sun position. Best-effort:
// it returns nil rather than invalidating the record when the object is
// missing, malformed, or only partially numeric.
func resolveSunPosition(raw RawForecastRecord) *SunPosition {
	v, ok := firstPresent(raw, sunKeys)
	if !ok {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	azRaw, ok := firstPresent(obj, azimuthKeys)
	if !ok {
		return nil
	}
	altRaw, ok := firstPresent(obj, altitudeKeys)
	if !ok {
		return nil
	}

	az, okAz := coerceFloat(azRaw)
	alt, okAlt := coerceFloat(altRaw)
	if !okAz || !okAlt {
		return nil
	}
	return &SunPosition{Azimuth: az, Altitude: alt}
}

// firstPresent returns the value of the first key present with a non-null
// value. JSON nulls count as absent so a later spelling can still win.
func firstPresent(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// coerceFloat converts the JSON value shapes the decoder can produce into a
// finite float64. NaN and infinities report false.
func coerceFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
