package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// SkinTypeSlots is the number of Fitzpatrick skin phototype slots the
// upstream reports safe exposure minutes for.
const SkinTypeSlots = 6

// SafeExposure holds per-skin-type safe exposure minutes, indexed by
// phototype (slot 0 = type I). Slots the upstream omits stay nil; they
// serialize as JSON nulls so the dashboard can render an empty slot.
type SafeExposure [SkinTypeSlots]*int

// SunTimes carries the day's sun milestones. All optional pass-through
// values.
type SunTimes struct {
	Sunrise   *time.Time `json:"sunrise,omitempty"`
	SolarNoon *time.Time `json:"solar_noon,omitempty"`
	Sunset    *time.Time `json:"sunset,omitempty"`
}

// CurrentConditions are the pass-through scalars read from the
// current-conditions payload: today's UV reading, the daily maximum and its
// time, safe exposure minutes, and sun times. None of them feed the series
// algorithms.
type CurrentConditions struct {
	UVIndex      *float64     `json:"uv_index,omitempty"`
	Category     Category     `json:"category,omitempty"`
	UVMax        *float64     `json:"uv_max,omitempty"`
	UVMaxTime    *time.Time   `json:"uv_max_time,omitempty"`
	SafeExposure SafeExposure `json:"safe_exposure_minutes"`
	SunTimes     SunTimes     `json:"sun_times"`
}

// Snapshot is one display cycle's worth of dashboard state for a location.
// Snapshots are rebuilt wholesale on every refresh; nothing carries over
// between cycles.
type Snapshot struct {
	ID        string            `json:"id"`
	Location  string            `json:"location"`
	Current   CurrentConditions `json:"current"`
	Window    []ChartPoint      `json:"window"`
	Segments  []Segment         `json:"segments"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// NewSnapshot assembles a display snapshot. The ID is unique per refresh
// cycle and FetchedAt comes from the package clock so tests can freeze it.
func NewSnapshot(location string, current CurrentConditions, window []ChartPoint, segments []Segment) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Location:  location,
		Current:   current,
		Window:    window,
		Segments:  segments,
		FetchedAt: clock.Now().UTC(),
	}
}

// Accepted key spellings for the current-conditions payload.
var (
	uvMaxKeys        = []string{"uv_max", "uvMax", "max_uv", "uv_max_value"}
	uvMaxTimeKeys    = []string{"uv_max_time", "uvMaxTime", "max_uv_time"}
	safeExposureKeys = []string{"safe_exposure_time", "safeExposureTime", "safe_exposure"}
	sunInfoKeys      = []string{"sun_info", "sunInfo"}
	sunTimesKeys     = []string{"sun_times", "sunTimes"}
	sunriseKeys      = []string{"sunrise", "sunrise_time"}
	solarNoonKeys    = []string{"solar_noon", "solarNoon"}
	sunsetKeys       = []string{"sunset", "sunset_time"}
)

// ParseCurrentConditions extracts pass-through scalars from a raw
// current-conditions object. Every field is best-effort: values that are
// missing or fail coercion stay nil, and nothing here can fail the refresh.
func ParseCurrentConditions(raw map[string]any) CurrentConditions {
	var c CurrentConditions
	if raw == nil {
		return c
	}

	if v, ok := firstPresent(raw, uvKeys); ok {
		if uv, ok := coerceFloat(v); ok && uv >= 0 {
			c.UVIndex = &uv
			c.Category = CategoryFor(uv)
		}
	}
	if v, ok := firstPresent(raw, uvMaxKeys); ok {
		if uv, ok := coerceFloat(v); ok && uv >= 0 {
			c.UVMax = &uv
		}
	}
	if v, ok := firstPresent(raw, uvMaxTimeKeys); ok {
		if t, ok := resolveTimeValue(v); ok {
			c.UVMaxTime = &t
		}
	}

	c.SafeExposure = parseSafeExposure(raw)
	c.SunTimes = parseSunTimes(raw)
	return c
}

// parseSafeExposure reads the st1..st6 slots from the nested safe-exposure
// object. The upstream reports minutes, occasionally as strings; null slots
// mean "protection required at any duration" and stay nil.
func parseSafeExposure(raw map[string]any) SafeExposure {
	var result SafeExposure
	v, ok := firstPresent(raw, safeExposureKeys)
	if !ok {
		return result
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return result
	}

	for slot := 0; slot < SkinTypeSlots; slot++ {
		key := fmt.Sprintf("st%d", slot+1)
		val, present := obj[key]
		if !present || val == nil {
			continue
		}
		if minutes, ok := coerceFloat(val); ok && minutes >= 0 {
			m := int(math.Round(minutes))
			result[slot] = &m
		}
	}
	return result
}

// parseSunTimes reads sunrise, solar noon, and sunset. The sun-times object
// sits either directly in the payload or nested under a sun-info wrapper.
func parseSunTimes(raw map[string]any) SunTimes {
	var result SunTimes

	obj := raw
	if v, ok := firstPresent(raw, sunInfoKeys); ok {
		if inner, ok := v.(map[string]any); ok {
			obj = inner
		}
	}
	if v, ok := firstPresent(obj, sunTimesKeys); ok {
		if inner, ok := v.(map[string]any); ok {
			obj = inner
		}
	}

	result.Sunrise = lookupTime(obj, sunriseKeys)
	result.SolarNoon = lookupTime(obj, solarNoonKeys)
	result.Sunset = lookupTime(obj, sunsetKeys)
	return result
}

func lookupTime(obj map[string]any, keys []string) *time.Time {
	v, ok := firstPresent(obj, keys)
	if !ok {
		return nil
	}
	t, ok := resolveTimeValue(v)
	if !ok {
		return nil
	}
	return &t
}
