package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvwatch/uv-forecast-service/internal/adapter/httpapi"
	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockSource struct {
	snaps map[string]domain.Snapshot
}

func (m *mockSource) Get(_ context.Context, location string) (domain.Snapshot, bool) {
	snap, ok := m.snaps[location]
	return snap, ok
}

func (m *mockSource) Locations(_ context.Context) []string {
	out := make([]string, 0, len(m.snaps))
	for name := range m.snaps {
		out = append(out, name)
	}
	return out
}

func testSnapshot() domain.Snapshot {
	uv := 6.5
	base := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	points := []domain.ChartPoint{
		{Label: "12 PM", Time: base, UV: 6.5},
		{Label: "1 PM", Time: base.Add(time.Hour), UV: 8.2},
	}
	return domain.Snapshot{
		ID:       "snap-1",
		Location: "singapore",
		Current: domain.CurrentConditions{
			UVIndex:  &uv,
			Category: domain.CategoryFor(uv),
		},
		Window: points,
		Segments: []domain.Segment{
			{Category: domain.CategoryHigh, Points: points},
		},
		FetchedAt: base,
	}
}

func newTestServer(readyErr error) *httpapi.Server {
	source := &mockSource{snaps: map[string]domain.Snapshot{
		"singapore": testSnapshot(),
	}}
	return httpapi.NewServer(":0", source, &mockReadiness{err: readyErr}, slog.Default())
}

func doRequest(srv *httpapi.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := doRequest(newTestServer(fmt.Errorf("no snapshot yet")), "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no snapshot yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestLocationsEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/api/v1/locations")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Locations []string `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"singapore"}, body.Locations)
}

func TestSnapshotEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/api/v1/uv/singapore")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		ID       string `json:"id"`
		Location string `json:"location"`
		Current  struct {
			UVIndex  *float64 `json:"uv_index"`
			Category string   `json:"category"`
		} `json:"current"`
		Window   []domain.ChartPoint `json:"window"`
		Segments []domain.Segment    `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "snap-1", body.ID)
	assert.Equal(t, "singapore", body.Location)
	require.NotNil(t, body.Current.UVIndex)
	assert.InEpsilon(t, 6.5, *body.Current.UVIndex, 0.0001)
	assert.Equal(t, "high", body.Current.Category)
	assert.Len(t, body.Window, 2)
	require.Len(t, body.Segments, 1)
	assert.Equal(t, domain.CategoryHigh, body.Segments[0].Category)
}

func TestSnapshotEndpoint_UnknownLocation(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/api/v1/uv/atlantis")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "atlantis")
}

func TestForecastEndpoint(t *testing.T) {
	rec := doRequest(newTestServer(nil), "/api/v1/uv/singapore/forecast")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Location string              `json:"location"`
		Window   []domain.ChartPoint `json:"window"`
		Segments []domain.Segment    `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "singapore", body.Location)
	assert.Len(t, body.Window, 2)
	assert.Equal(t, "12 PM", body.Window[0].Label)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(nil)

	rec := doRequest(srv, "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// A caller-supplied ID is echoed back unchanged.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}
