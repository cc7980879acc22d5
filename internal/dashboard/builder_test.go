package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/dashboard"
	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/filter"
	"github.com/OldStager01/bikeshare-dashboard/internal/geo"
	"github.com/OldStager01/bikeshare-dashboard/internal/segment"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
	"github.com/OldStager01/bikeshare-dashboard/pkg/validation"
)

func day(d int) time.Time {
	return time.Date(2011, 1, d, 0, 0, 0, 0, time.UTC)
}

func threeDays() session.Tables {
	daily := []models.DailyRecord{
		{Date: day(3), Weather: models.WeatherClear, Weekday: 1, DayType: models.DayTypeWeekday, Count: 10},
		{Date: day(4), Weather: models.WeatherClear, Weekday: 2, DayType: models.DayTypeWeekday, Count: 20},
		{Date: day(5), Weather: models.WeatherClear, Weekday: 3, DayType: models.DayTypeWeekday, Count: 30},
	}
	var hourly []models.HourlyRecord
	for h := 0; h < 24; h++ {
		hourly = append(hourly, models.HourlyRecord{Date: day(3), Hour: h, Count: (h%6 + 1) * 10})
	}
	return session.Tables{Daily: daily, Hourly: hourly}
}

func newBuilder(t *testing.T, tables session.Tables) (*dashboard.Builder, <-chan *models.Event) {
	t.Helper()
	store := session.NewStore(session.FromTables("test", tables))
	t.Cleanup(func() { store.Close() })

	bus := events.NewEventBus(16)
	t.Cleanup(bus.Close)
	rendered := bus.Subscribe(models.EventTypeDashboardRendered)

	return dashboard.NewBuilder(store, segment.DefaultKMeans(), events.NewPublisher(bus)), rendered
}

func TestBuild_FullRange(t *testing.T) {
	b, rendered := newBuilder(t, threeDays())

	criteria, err := b.Resolve(validation.CriteriaQuery{})
	require.NoError(t, err)

	d, err := b.Build(context.Background(), criteria)
	require.NoError(t, err)

	assert.Equal(t, 60, d.Summary.Total)
	assert.Equal(t, "20.00", d.Summary.AverageText)
	require.NotNil(t, d.Summary.PeakDay)
	assert.True(t, day(5).Equal(*d.Summary.PeakDay))

	assert.Equal(t, []models.CategoryTotal{{Category: models.WeatherClear, Total: 60}}, d.WeatherImpact)
	require.Len(t, d.DayTypeSpread, 1)
	assert.Equal(t, models.DayTypeWeekday, d.DayTypeSpread[0].DayType)

	require.NotNil(t, d.RFM.Data)
	assert.Empty(t, d.RFM.Notice)
	assert.Len(t, d.RFM.Data.Rows, 3)
	require.NotNil(t, d.HourlyClusters.Data)
	assert.Len(t, d.HourlyClusters.Data.Buckets, 24)

	assert.False(t, d.Map.Available)
	assert.Equal(t, geo.NoticeNoCoordinates, d.Map.Notice)

	select {
	case e := <-rendered:
		assert.Equal(t, "test", e.Dataset)
	case <-time.After(time.Second):
		t.Fatal("no dashboard_rendered event")
	}
}

func TestBuild_EmptyRange(t *testing.T) {
	b, _ := newBuilder(t, threeDays())

	criteria, err := b.Resolve(validation.CriteriaQuery{Start: "2012-06-01", End: "2012-06-30"})
	require.NoError(t, err)

	d, err := b.Build(context.Background(), criteria)
	require.NoError(t, err)

	assert.Equal(t, 0, d.Summary.Total)
	assert.Equal(t, models.NoData, d.Summary.AverageText)
	assert.Equal(t, models.NoData, d.Summary.PeakDayText)
	assert.Empty(t, d.WeatherImpact)
	assert.Empty(t, d.DayTypeSpread)

	// segmentation runs over the unfiltered tables
	assert.NotNil(t, d.RFM.Data)
}

func TestBuild_InvalidRange(t *testing.T) {
	b, _ := newBuilder(t, threeDays())

	criteria, err := b.Resolve(validation.CriteriaQuery{Start: "2011-01-05", End: "2011-01-03"})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), criteria)
	assert.ErrorIs(t, err, filter.ErrInvalidRange)
}

func TestBuild_TooFewDatesForRFM(t *testing.T) {
	tables := threeDays()
	tables.Daily = tables.Daily[:2]
	b, _ := newBuilder(t, tables)

	criteria, err := b.DefaultCriteria()
	require.NoError(t, err)

	d, err := b.Build(context.Background(), criteria)
	require.NoError(t, err)

	assert.Nil(t, d.RFM.Data)
	assert.Equal(t, "not enough data to form 3 clusters", d.RFM.Notice)
	assert.NotNil(t, d.HourlyClusters.Data)
	assert.Equal(t, 30, d.Summary.Total)
}

func TestBuild_Heatmap(t *testing.T) {
	tables := threeDays()
	lat, lng := 38.9, -77.0
	for i := range tables.Hourly {
		tables.Hourly[i].Lat, tables.Hourly[i].Long = &lat, &lng
	}
	tables.HasGeo = true
	b, _ := newBuilder(t, tables)

	criteria, err := b.DefaultCriteria()
	require.NoError(t, err)
	d, err := b.Build(context.Background(), criteria)
	require.NoError(t, err)

	assert.True(t, d.Map.Available)
	assert.Len(t, d.Map.Points, 24)
}

func TestOptions(t *testing.T) {
	b, _ := newBuilder(t, threeDays())

	info, err := b.Options()
	require.NoError(t, err)

	assert.Equal(t, 3, info.DailyRows)
	assert.Equal(t, []models.WeatherCategory{models.WeatherClear}, info.Weather)
	assert.True(t, day(3).Equal(info.FirstDate))
}
