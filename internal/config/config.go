package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Location is one dashboard location the service refreshes.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	UpstreamBaseURL string
	UpstreamAPIKey  string
	UpstreamTimeout time.Duration

	Locations       []Location
	RefreshInterval time.Duration
	ForecastWindow  int
	DisplayTimezone *time.Location

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional snapshot publishing to Kafka.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string

	// Optional snapshot mirroring to Redis.
	RedisEnabled     bool
	RedisAddr        string
	RedisSnapshotTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	upstreamTimeout, err := parsePositiveDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	redisTTL, err := parsePositiveDuration("REDIS_SNAPSHOT_TTL", "1h")
	if err != nil {
		return nil, err
	}

	window, err := parseForecastWindow()
	if err != nil {
		return nil, err
	}

	locations, err := parseLocations(envOrDefault("LOCATIONS", "san-francisco:37.7749,-122.4194"))
	if err != nil {
		return nil, err
	}

	tzName := envOrDefault("DISPLAY_TIMEZONE", "UTC")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		UpstreamBaseURL: envOrDefault("UPSTREAM_BASE_URL", "https://api.openuv.io/api/v1"),
		UpstreamAPIKey:  os.Getenv("UPSTREAM_API_KEY"),
		UpstreamTimeout: upstreamTimeout,

		Locations:       locations,
		RefreshInterval: refreshInterval,
		ForecastWindow:  window,
		DisplayTimezone: tz,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: envOrDefault("KAFKA_SNAPSHOT_TOPIC", "uv-snapshots"),

		RedisEnabled:     os.Getenv("REDIS_ENABLED") == "true",
		RedisAddr:        envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisSnapshotTTL: redisTTL,
	}

	if cfg.UpstreamAPIKey == "" {
		return nil, errors.New("UPSTREAM_API_KEY is required")
	}
	if len(cfg.Locations) == 0 {
		return nil, errors.New("LOCATIONS is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SNAPSHOT_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parseForecastWindow() (int, error) {
	raw := envOrDefault("FORECAST_WINDOW", "24")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 168 {
		return 0, fmt.Errorf("invalid FORECAST_WINDOW %q (want 1-168)", raw)
	}
	return n, nil
}

// parseLocations parses the LOCATIONS list: semicolon-separated
// "name:lat,lon" entries, e.g. "singapore:1.3521,103.8198;austin:30.27,-97.74".
func parseLocations(raw string) ([]Location, error) {
	var locations []Location
	seen := make(map[string]bool)

	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, coords, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid LOCATIONS entry %q (want name:lat,lon)", entry)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid LOCATIONS entry %q: empty name", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate location name %q", name)
		}

		latStr, lonStr, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("invalid LOCATIONS entry %q (want name:lat,lon)", entry)
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if errLat != nil || errLon != nil {
			return nil, fmt.Errorf("invalid coordinates in LOCATIONS entry %q", entry)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("coordinates out of range in LOCATIONS entry %q", entry)
		}

		seen[name] = true
		locations = append(locations, Location{Name: name, Lat: lat, Lon: lon})
	}

	return locations, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
