package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

// RedisMirror wraps the in-memory store and mirrors every snapshot to Redis
// with a TTL, so sibling instances can serve locations they have not
// refreshed themselves. Reads prefer local memory; Redis is only consulted
// on a local miss. Mirror failures degrade to memory-only operation rather
// than failing the refresh.
type RedisMirror struct {
	primary *Memory
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
}

// NewRedisMirror creates a mirroring decorator around the in-memory store.
func NewRedisMirror(primary *Memory, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisMirror {
	return &RedisMirror{
		primary: primary,
		client:  client,
		ttl:     ttl,
		logger:  logger,
	}
}

// Put stores the snapshot locally and mirrors it to Redis.
func (s *RedisMirror) Put(ctx context.Context, snap domain.Snapshot) error {
	if err := s.primary.Put(ctx, snap); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(snap.Location), data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis mirror write failed", "location", snap.Location, "error", err)
	}
	return nil
}

// Get returns the local snapshot when present, otherwise falls back to the
// Redis mirror.
func (s *RedisMirror) Get(ctx context.Context, location string) (domain.Snapshot, bool) {
	if snap, ok := s.primary.Get(ctx, location); ok {
		return snap, true
	}

	data, err := s.client.Get(ctx, snapshotKey(location)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Snapshot{}, false
	}
	if err != nil {
		s.logger.Warn("redis mirror read failed", "location", location, "error", err)
		return domain.Snapshot{}, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		s.logger.Warn("redis mirror holds malformed snapshot", "location", location, "error", err)
		return domain.Snapshot{}, false
	}
	return snap, true
}

// Locations lists locally stored locations. The mirror is a read-through for
// known names, not an index.
func (s *RedisMirror) Locations(ctx context.Context) []string {
	return s.primary.Locations(ctx)
}

func snapshotKey(location string) string {
	return "uv:snapshot:" + location
}
