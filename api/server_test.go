package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/api"
	"github.com/OldStager01/bikeshare-dashboard/internal/dashboard"
	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/segment"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

func newServer(t *testing.T, rateLimit int) *api.Server {
	t.Helper()

	daily := []models.DailyRecord{
		{Date: time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC), Weather: models.WeatherClear, Weekday: 1, DayType: models.DayTypeWeekday, Count: 10},
		{Date: time.Date(2011, 1, 4, 0, 0, 0, 0, time.UTC), Weather: models.WeatherClear, Weekday: 2, DayType: models.DayTypeWeekday, Count: 20},
		{Date: time.Date(2011, 1, 5, 0, 0, 0, 0, time.UTC), Weather: models.WeatherClear, Weekday: 3, DayType: models.DayTypeWeekday, Count: 30},
	}
	store := session.NewStore(session.FromTables("test", session.Tables{Daily: daily}))
	bus := events.NewEventBus(16)
	builder := dashboard.NewBuilder(store, segment.DefaultKMeans(), events.NewPublisher(bus))

	srv := api.NewServer(config.APIConfig{Port: 0, RateLimit: rateLimit}, nil, "test", api.Dependencies{
		Store:   store,
		Builder: builder,
		Events:  bus,
	})
	t.Cleanup(func() {
		// t.Context() is already cancelled when cleanups run.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = srv.Shutdown(ctx)
		bus.Close()
		_ = store.Close()
	})
	return srv
}

func TestServer_Routes(t *testing.T) {
	srv := newServer(t, 0)

	tests := []struct {
		target string
		want   int
	}{
		{"/health", http.StatusOK},
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/", http.StatusOK},
		{"/charts?tab=daytype", http.StatusOK},
		{"/api/v1/options", http.StatusOK},
		{"/api/v1/dashboard", http.StatusOK},
		{"/api/v1/charts/daytype", http.StatusOK},
		{"/api/v1/segments/hourly", http.StatusOK},
		{"/api/v1/map", http.StatusOK},
		{"/api/v1/dashboard?start=2011-01-05&end=2011-01-01", http.StatusBadRequest},
		{"/clusters", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestServer_Headers(t *testing.T) {
	srv := newServer(t, 0)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://unpkg.com")
}

func TestServer_RateLimit(t *testing.T) {
	srv := newServer(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
