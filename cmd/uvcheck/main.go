// Command uvcheck performs end-to-end integrity checks on a raw forecast
// fixture: it runs the normalize-window-segment path and verifies drop
// accounting, ordering, window bounds, and segmentation invariants.
//
// Usage:
//
//	go run ./cmd/uvcheck -fixture data/mock/forecast_sg.json [-window 24] [-tz UTC]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixture := flag.String("fixture", "", "path to raw forecast JSON fixture")
	window := flag.Int("window", domain.DefaultWindowSize, "chart window size in points")
	tzName := flag.String("tz", "UTC", "display timezone for chart labels")
	flag.Parse()

	if *fixture == "" {
		flag.Usage()
		os.Exit(1)
	}

	tz, err := time.LoadLocation(*tzName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load timezone: %v\n", err)
		os.Exit(1)
	}

	if code := run(*fixture, *window, tz); code != 0 {
		os.Exit(code)
	}
}

func run(fixturePath string, window int, tz *time.Location) int {
	fmt.Println("=== UV Forecast Integrity Validation ===")
	fmt.Println()

	data, err := os.ReadFile(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read fixture: %v\n", err)
		return 1
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse fixture: %v\n", err)
		return 1
	}

	raws := domain.ExtractForecastRecords(payload)
	series := domain.BuildSeries(raws)
	windowed := domain.Window(series, window)
	points := domain.ChartPoints(windowed, tz)
	segments := domain.SegmentPoints(points)

	phases := []*phase{
		validateNormalization(raws, series),
		validateOrdering(series),
		validateWindow(series, windowed, window),
		validateSegmentation(points, segments),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d normalized, %d dropped, %d windowed, %d segments\n",
		len(raws), len(series), len(raws)-len(series), len(windowed), len(segments))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Normalization ──
// Every raw record either normalizes or is dropped for a recognizable
// reason, and every normalized point is well-formed.

func validateNormalization(raws []domain.RawForecastRecord, series domain.ForecastSeries) *phase {
	p := &phase{name: "Phase 1: Normalization (drop accounting)"}

	normalized := 0
	for i, raw := range raws {
		point, ok := domain.NormalizeRecord(raw)
		if !ok {
			continue
		}
		normalized++
		if point.Time.IsZero() {
			p.errorf("record %d: normalized point has zero time", i)
		}
		if point.UVIndex < 0 {
			p.errorf("record %d: normalized point has negative UV %g", i, point.UVIndex)
		}
		if _, err := time.Parse(time.RFC3339, point.CanonicalTime()); err != nil {
			p.errorf("record %d: canonical time %q is not RFC3339", i, point.CanonicalTime())
		}
	}

	if normalized != len(series) {
		p.errorf("series length %d does not match %d normalizable records", len(series), normalized)
	}
	return p
}

// ── Phase 2: Ordering ──
// The series is non-decreasing by time, and re-normalizing a point's
// canonical string resolves the same instant.

func validateOrdering(series domain.ForecastSeries) *phase {
	p := &phase{name: "Phase 2: Ordering (sort + canonical form)"}

	for i := range series {
		if i > 0 && series[i].Time.Before(series[i-1].Time) {
			p.errorf("point %d (%s) sorts before point %d (%s)",
				i, series[i].CanonicalTime(), i-1, series[i-1].CanonicalTime())
		}
		again, ok := domain.NormalizeRecord(domain.RawForecastRecord{
			"time": series[i].CanonicalTime(),
			"uv":   series[i].UVIndex,
		})
		if !ok {
			p.errorf("point %d: canonical time %q does not re-normalize", i, series[i].CanonicalTime())
		} else if !again.Time.Equal(series[i].Time) {
			p.errorf("point %d: re-normalizing %q changed the instant", i, series[i].CanonicalTime())
		}
	}
	return p
}

// ── Phase 3: Window ──
// The window is a bounded prefix of the series.

func validateWindow(series, windowed domain.ForecastSeries, window int) *phase {
	p := &phase{name: "Phase 3: Window (bounded prefix)"}

	if len(windowed) > window {
		p.errorf("window has %d points, limit is %d", len(windowed), window)
	}
	if len(series) >= window && len(windowed) != window {
		p.errorf("window has %d points but %d were available", len(windowed), len(series))
	}
	for i := range windowed {
		if !windowed[i].Time.Equal(series[i].Time) || windowed[i].UVIndex != series[i].UVIndex {
			p.errorf("window point %d differs from series prefix", i)
		}
	}
	return p
}

// ── Phase 4: Segmentation ──
// Every point is categorized correctly, adjacent segments share their
// boundary point, no segment is a lone point unless it is the only one,
// and joining the segments reconstructs the window.

func validateSegmentation(points []domain.ChartPoint, segments []domain.Segment) *phase {
	p := &phase{name: "Phase 4: Segmentation (contiguous runs)"}

	if len(points) == 0 {
		if len(segments) != 0 {
			p.errorf("no chart points but %d segments", len(segments))
		}
		return p
	}
	if len(segments) == 0 {
		p.errorf("%d chart points but no segments", len(points))
		return p
	}

	for si, seg := range segments {
		if len(seg.Points) == 0 {
			p.errorf("segment %d is empty", si)
			continue
		}
		if len(seg.Points) == 1 && len(segments) > 1 {
			p.errorf("segment %d is a lone point in a multi-segment chart", si)
		}
		// Interior points must match the segment category; a segment's final
		// point may be a boundary belonging to the following category.
		last := len(seg.Points) - 1
		for pi, pt := range seg.Points {
			if pi == last && last > 0 {
				continue
			}
			if got := domain.CategoryFor(pt.UV); got != seg.Category {
				p.errorf("segment %d (%s) point %d has UV %g (%s)", si, seg.Category, pi, pt.UV, got)
			}
		}
	}

	for si := 1; si < len(segments); si++ {
		prev := segments[si-1].Points
		next := segments[si].Points
		if len(prev) == 0 || len(next) == 0 {
			continue
		}
		if prev[len(prev)-1] != next[0] {
			p.errorf("segments %d and %d do not share a boundary point", si-1, si)
		}
	}

	// Reconstruct the window by joining segments and dropping the duplicated
	// boundary points.
	var joined []domain.ChartPoint
	for si, seg := range segments {
		pts := seg.Points
		if si > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		joined = append(joined, pts...)
	}
	// A trailing boundary-only run folds into the last segment, so the join
	// must equal the full window exactly.
	if len(joined) != len(points) {
		p.errorf("joined segments have %d points, window has %d", len(joined), len(points))
		return p
	}
	for i := range joined {
		if joined[i] != points[i] {
			p.errorf("joined point %d differs from window point %d", i, i)
		}
	}
	return p
}
