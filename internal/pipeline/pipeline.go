package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/uvwatch/uv-forecast-service/internal/config"
	"github.com/uvwatch/uv-forecast-service/internal/domain"
	"github.com/uvwatch/uv-forecast-service/internal/observability"
)

// Fetcher retrieves raw UV payloads from the upstream API for one location.
type Fetcher interface {
	FetchCurrent(ctx context.Context, loc config.Location) (map[string]any, error)
	FetchForecast(ctx context.Context, loc config.Location) ([]domain.RawForecastRecord, error)
}

// Store persists the latest snapshot for a location.
type Store interface {
	Put(ctx context.Context, snap domain.Snapshot) error
}

// Publisher emits a snapshot to downstream consumers. Optional; a nil
// publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Refresher orchestrates the periodic fetch-normalize-store loop.
type Refresher struct {
	fetcher   Fetcher
	builder   *SnapshotBuilder
	store     Store
	publisher Publisher
	locations []config.Location
	interval  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// NewRefresher creates a Refresher over the given locations and stages.
// publisher may be nil.
func NewRefresher(f Fetcher, b *SnapshotBuilder, s Store, pub Publisher, locations []config.Location, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		fetcher:   f,
		builder:   b,
		store:     s,
		publisher: pub,
		locations: locations,
		interval:  interval,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one location has a stored snapshot,
// or an error describing why the service is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no snapshot has been refreshed yet")
	}
	return nil
}

// Run refreshes all locations immediately, then on every interval tick, until
// the context is cancelled. A cycle where every location fails retries with
// backoff instead of waiting out the full interval.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started",
		"locations", len(r.locations),
		"interval", r.interval,
	)
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during upstream outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		default:
		}

		ok := r.refreshAll(ctx)
		if ctx.Err() != nil {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}

		wait := r.interval
		if !ok {
			wait = backoff
			backoff = nextBackoff(backoff, maxBackoff)
		} else {
			backoff = 200 * time.Millisecond
		}

		if !sleepWithContext(ctx, wait) {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// refreshAll runs one refresh cycle across every location. Returns false when
// all locations failed, which signals the caller to retry with backoff.
func (r *Refresher) refreshAll(ctx context.Context) bool {
	succeeded := 0
	for _, loc := range r.locations {
		if ctx.Err() != nil {
			return true
		}
		if err := r.refreshLocation(ctx, loc); err != nil {
			if ctx.Err() != nil {
				return true
			}
			r.logger.Error("refresh failed", "location", loc.Name, "error", err)
			r.metrics.RefreshErrors.Inc()
			continue
		}
		succeeded++
	}
	return succeeded > 0 || len(r.locations) == 0
}

// refreshLocation fetches, builds, stores, and optionally publishes one
// location's snapshot. Publish failures are logged but do not fail the
// refresh; the local store stays authoritative.
func (r *Refresher) refreshLocation(ctx context.Context, loc config.Location) error {
	start := time.Now()

	current, err := r.fetcher.FetchCurrent(ctx, loc)
	if err != nil {
		return err
	}

	raws, err := r.fetcher.FetchForecast(ctx, loc)
	if err != nil {
		return err
	}
	r.metrics.RecordsFetched.Add(float64(len(raws)))

	snap, dropped := r.builder.Build(loc, current, raws)
	if dropped > 0 {
		r.logger.Warn("dropped unnormalizable records",
			"location", loc.Name,
			"dropped", dropped,
			"fetched", len(raws),
		)
		r.metrics.RecordsDropped.Add(float64(dropped))
	}
	r.metrics.WindowSize.Observe(float64(len(snap.Window)))

	if err := r.store.Put(ctx, snap); err != nil {
		return err
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, snap); err != nil {
			r.logger.Warn("publish snapshot failed", "location", loc.Name, "error", err)
			r.metrics.PublishErrors.Inc()
		} else {
			r.metrics.SnapshotsPublished.Inc()
		}
	}

	r.metrics.RefreshesTotal.Inc()
	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	r.ready.Store(true)

	r.logger.Info("snapshot refreshed",
		"location", loc.Name,
		"window", len(snap.Window),
		"segments", len(snap.Segments),
	)
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
