package pipeline

import (
	"time"

	"github.com/uvwatch/uv-forecast-service/internal/config"
	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

// SnapshotBuilder assembles a display snapshot from raw upstream payloads
// using the domain normalization and segmentation routines. It is pure:
// nothing is cached between calls, so each refresh cycle starts clean.
type SnapshotBuilder struct {
	windowSize int
	tz         *time.Location
}

// NewSnapshotBuilder creates a builder for the configured window size and
// display timezone.
func NewSnapshotBuilder(windowSize int, tz *time.Location) *SnapshotBuilder {
	return &SnapshotBuilder{windowSize: windowSize, tz: tz}
}

// Build normalizes the raw forecast into a windowed, segmented series and
// wraps it with the pass-through current conditions. It also reports how many
// raw records normalization dropped.
func (b *SnapshotBuilder) Build(loc config.Location, current map[string]any, raws []domain.RawForecastRecord) (domain.Snapshot, int) {
	series := domain.BuildSeries(raws)
	dropped := len(raws) - len(series)

	window := domain.Window(series, b.windowSize)
	points := domain.ChartPoints(window, b.tz)
	segments := domain.SegmentPoints(points)

	snap := domain.NewSnapshot(loc.Name, domain.ParseCurrentConditions(current), points, segments)
	return snap, dropped
}
