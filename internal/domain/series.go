package domain

import (
	"sort"
	"time"
)

// DefaultWindowSize is the "next 24 hours" convention: the window is a fixed
// count of points from the front of the sorted series, not a wall-clock
// filter.
const DefaultWindowSize = 24

// BuildSeries normalizes every raw record, discards invalid ones, and returns
// the survivors sorted ascending by timestamp. The sort is stable, so equal
// timestamps keep their relative input order. BuildSeries holds no state
// between calls; each refresh cycle starts from scratch.
func BuildSeries(raws []RawForecastRecord) ForecastSeries {
	series := make(ForecastSeries, 0, len(raws))
	for _, raw := range raws {
		if p, ok := NormalizeRecord(raw); ok {
			series = append(series, p)
		}
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series
}

// Window returns the bounded look-ahead view: the first n points of the
// sorted series. The series is assumed to begin at or after the current
// refresh, so no comparison against "now" is made.
func Window(series ForecastSeries, n int) ForecastSeries {
	if n <= 0 {
		n = DefaultWindowSize
	}
	if len(series) <= n {
		return series
	}
	return series[:n]
}

// ChartPoints converts a windowed series into rendering-ready label/value
// pairs. Labels are hour labels in the given display timezone; a nil
// timezone means UTC.
func ChartPoints(series ForecastSeries, tz *time.Location) []ChartPoint {
	if tz == nil {
		tz = time.UTC
	}
	points := make([]ChartPoint, len(series))
	for i, p := range series {
		points[i] = ChartPoint{
			Label: p.Time.In(tz).Format("3 PM"),
			Time:  p.Time,
			UV:    p.UVIndex,
		}
	}
	return points
}

// SegmentPoints splits a category-labeled series into contiguous runs sharing
// one severity category, for multi-color line rendering.
//
// A category change at index i closes the current run at i, so the first
// point of the new category also ends the previous segment; that same point
// opens the next run. Adjacent segments therefore overlap by exactly one
// shared boundary point and the rendered line has no gaps.
//
// A trailing run holding only the shared boundary point is already covered by
// the preceding segment and is not emitted on its own, which keeps length-1
// segments out of the output unless the whole series is a single point.
func SegmentPoints(points []ChartPoint) []Segment {
	if len(points) == 0 {
		return []Segment{}
	}

	var segments []Segment
	start := 0
	current := CategoryFor(points[0].UV)

	for i := 1; i < len(points); i++ {
		c := CategoryFor(points[i].UV)
		if c == current {
			continue
		}
		segments = append(segments, Segment{
			Category: current,
			Points:   clonePoints(points[start : i+1]),
		})
		start = i
		current = c
	}

	tail := points[start:]
	if len(tail) == 1 && len(segments) > 0 {
		return segments
	}
	return append(segments, Segment{
		Category: current,
		Points:   clonePoints(tail),
	})
}

// clonePoints copies a sub-slice so segments never alias the window they were
// cut from.
func clonePoints(points []ChartPoint) []ChartPoint {
	out := make([]ChartPoint, len(points))
	copy(out, points)
	return out
}
