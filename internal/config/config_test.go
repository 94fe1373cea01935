package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "uv-test-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.openuv.io/api/v1", cfg.UpstreamBaseURL)
	assert.Equal(t, testAPIKey, cfg.UpstreamAPIKey)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Len(t, cfg.Locations, 1)
	assert.Equal(t, "san-francisco", cfg.Locations[0].Name)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 24, cfg.ForecastWindow)
	assert.Equal(t, time.UTC, cfg.DisplayTimezone)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "uv-snapshots", cfg.KafkaSnapshotTopic)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.RedisSnapshotTTL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", testAPIKey)
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:9999/api/v1")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("LOCATIONS", "singapore:1.3521,103.8198;austin:30.2672,-97.7431")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("FORECAST_WINDOW", "12")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SNAPSHOT_TOPIC", "custom-snapshots")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_SNAPSHOT_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/api/v1", cfg.UpstreamBaseURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	require.Len(t, cfg.Locations, 2)
	assert.Equal(t, Location{Name: "singapore", Lat: 1.3521, Lon: 103.8198}, cfg.Locations[0])
	assert.Equal(t, Location{Name: "austin", Lat: 30.2672, Lon: -97.7431}, cfg.Locations[1])
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 12, cfg.ForecastWindow)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-snapshots", cfg.KafkaSnapshotTopic)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.RedisSnapshotTTL)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPSTREAM_API_KEY")
}

func TestLoad_InvalidRefreshInterval(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", testAPIKey)
	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", testAPIKey)
	t.Setenv("REFRESH_INTERVAL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_INTERVAL")
}

func TestLoad_InvalidForecastWindow(t *testing.T) {
	tests := []string{"0", "-3", "999", "tomorrow"}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			t.Setenv("UPSTREAM_API_KEY", testAPIKey)
			t.Setenv("FORECAST_WINDOW", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FORECAST_WINDOW")
		})
	}
}

func TestLoad_InvalidDisplayTimezone(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", testAPIKey)
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISPLAY_TIMEZONE")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("UPSTREAM_API_KEY", testAPIKey)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestParseLocations(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		count   int
		wantErr bool
	}{
		{"single location", "singapore:1.35,103.82", 1, false},
		{"multiple locations", "a:1,2;b:3,4;c:5,6", 3, false},
		{"trailing separator", "a:1,2;", 1, false},
		{"whitespace tolerated", " a : 1 , 2 ", 1, false},
		{"missing coordinates", "singapore", 0, true},
		{"missing longitude", "singapore:1.35", 0, true},
		{"non-numeric latitude", "singapore:north,103.82", 0, true},
		{"latitude out of range", "nowhere:91,0", 0, true},
		{"longitude out of range", "nowhere:0,181", 0, true},
		{"empty name", ":1,2", 0, true},
		{"duplicate name", "a:1,2;a:3,4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locations, err := parseLocations(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, locations, tt.count)
		})
	}
}
