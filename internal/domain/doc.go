// Package domain models UV index forecast data as reported by the upstream
// UV API.
//
// # Data Source
//
// Forecast and current-conditions payloads come from a consumer UV API that
// has shipped several wire shapes over time. The payloads are loosely typed
// JSON: field names, casings, and timestamp encodings vary between API
// versions, so every record is treated as untrusted until it passes
// [NormalizeRecord].
//
// # Field Conventions
//
// Timestamps appear under one of several keys (time, timestamp, datetime,
// dateTime, date, ts, dt, uv_time) and in one of three encodings:
//
//	RFC 3339 string:        "2023-11-15T01:00:00Z"
//	RFC 3339, zone omitted: "2023-11-15T01:00:00"  (interpreted as UTC)
//	Unix numeric:           1700000000 (seconds) or 1700000000000 (milliseconds)
//
// Numeric magnitudes of 1e12 and above are milliseconds, 1e9 up to (but not
// including) 1e12 are seconds, and anything below 1e9 is unresolvable. Both
// lower bounds are inclusive for their bucket. Resolved instants are held in
// UTC so ordering and serialization stay unambiguous.
//
// UV values appear under one of uv, uvi, uvIndex, uv_index, UV, UVIndex, or
// value. Values are not clamped: the nominal scale tops out at 11 ("extreme")
// but high-altitude and equatorial readings above that are passed through.
//
// Sun position is an optional nested object (azimuth and altitude in
// degrees). It is best-effort: a malformed or missing sun position never
// invalidates the record that carries it.
//
// # Severity Categories
//
// UV values map to the standard WHO UV index scale:
//
//	low < 3 | moderate < 6 | high < 8 | very_high < 11 | extreme >= 11
//
// # Safe Exposure
//
// The current-conditions payload reports safe exposure minutes for the six
// Fitzpatrick skin phototypes (st1 through st6). Slots the upstream omits
// stay nil; they are pass-through values, never computed locally.
package domain
