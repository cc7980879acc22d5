package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/geo"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

func at(lat, lng float64, count int) models.HourlyRecord {
	return models.HourlyRecord{Count: count, Lat: &lat, Long: &lng}
}

func TestHeatmap(t *testing.T) {
	hourly := []models.HourlyRecord{
		at(38.90, -77.04, 10),
		at(38.92, -77.02, 30),
		at(38.88, -77.00, 20),
	}

	view := geo.Heatmap(hourly, true)

	require.True(t, view.Available)
	assert.Empty(t, view.Notice)
	assert.InDelta(t, 38.90, view.Center.Lat, 1e-9)
	assert.InDelta(t, -77.02, view.Center.Lng, 1e-9)
	assert.InDelta(t, 38.88, view.SouthWest.Lat, 1e-9)
	assert.InDelta(t, -77.04, view.SouthWest.Lng, 1e-9)
	assert.InDelta(t, 38.92, view.NorthEast.Lat, 1e-9)
	assert.InDelta(t, -77.00, view.NorthEast.Lng, 1e-9)
	assert.Equal(t, geo.DefaultZoom, view.Zoom)
	require.Len(t, view.Points, 3)
	assert.Equal(t, 30.0, view.Points[1].Weight)
	assert.Equal(t, 30.0, view.MaxWeight)
}

func TestHeatmap_Unavailable(t *testing.T) {
	tests := []struct {
		name      string
		hourly    []models.HourlyRecord
		hasCoords bool
		notice    string
	}{
		{
			name:      "no coordinate columns",
			hourly:    []models.HourlyRecord{{Hour: 1, Count: 4}},
			hasCoords: false,
			notice:    geo.NoticeNoCoordinates,
		},
		{
			name:      "columns present but no rows",
			hourly:    nil,
			hasCoords: true,
			notice:    geo.NoticeNoPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := geo.Heatmap(tt.hourly, tt.hasCoords)

			assert.False(t, view.Available)
			assert.Equal(t, tt.notice, view.Notice)
			assert.Empty(t, view.Points)
		})
	}
}

func TestHasCoordinates(t *testing.T) {
	assert.False(t, geo.HasCoordinates(nil))
	assert.False(t, geo.HasCoordinates([]models.HourlyRecord{{Count: 1}}))
	assert.True(t, geo.HasCoordinates([]models.HourlyRecord{{Count: 1}, at(1, 2, 3)}))
}
