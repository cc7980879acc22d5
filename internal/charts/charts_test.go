package charts_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/charts"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

func view(records ...models.DailyRecord) models.FilteredView {
	return models.FilteredView{Records: records, TotalRows: len(records)}
}

func rec(d int, w models.WeatherCategory, dt models.DayType, count int) models.DailyRecord {
	return models.DailyRecord{
		Date:    time.Date(2011, 1, d, 0, 0, 0, 0, time.UTC),
		Weather: w,
		DayType: dt,
		Count:   count,
	}
}

func TestWeatherImpact(t *testing.T) {
	v := view(
		rec(1, models.WeatherClear, models.DayTypeWeekday, 100),
		rec(2, models.WeatherCloudy, models.DayTypeWeekday, 300),
		rec(3, models.WeatherClear, models.DayTypeWeekend, 150),
		rec(4, models.WeatherLightRain, models.DayTypeWeekday, 250),
	)

	got := charts.WeatherImpact(v)

	assert.Equal(t, []models.CategoryTotal{
		{Category: models.WeatherCloudy, Total: 300},
		{Category: models.WeatherClear, Total: 250},
		{Category: models.WeatherLightRain, Total: 250},
	}, got)
}

func TestWeatherImpact_Empty(t *testing.T) {
	assert.Empty(t, charts.WeatherImpact(view()))
}

func TestDayTypeDistribution(t *testing.T) {
	v := view(
		rec(1, models.WeatherClear, models.DayTypeWeekday, 1),
		rec(2, models.WeatherClear, models.DayTypeWeekday, 2),
		rec(3, models.WeatherClear, models.DayTypeWeekday, 3),
		rec(4, models.WeatherClear, models.DayTypeWeekday, 4),
		rec(5, models.WeatherClear, models.DayTypeWeekday, 5),
		rec(6, models.WeatherClear, models.DayTypeWeekend, 40),
	)

	got := charts.DayTypeDistribution(v)
	require.Len(t, got, 2)

	weekday := got[0]
	assert.Equal(t, models.DayTypeWeekday, weekday.DayType)
	assert.Equal(t, 5, weekday.Count)
	assert.InDelta(t, 1.0, weekday.Min, 1e-9)
	assert.InDelta(t, 2.0, weekday.Q1, 1e-9)
	assert.InDelta(t, 3.0, weekday.Median, 1e-9)
	assert.InDelta(t, 4.0, weekday.Q3, 1e-9)
	assert.InDelta(t, 5.0, weekday.Max, 1e-9)
	assert.InDelta(t, 1.0, weekday.LowerWhisker, 1e-9)
	assert.InDelta(t, 5.0, weekday.UpperWhisker, 1e-9)
	assert.Empty(t, weekday.Outliers)

	weekend := got[1]
	assert.Equal(t, models.DayTypeWeekend, weekend.DayType)
	assert.Equal(t, 1, weekend.Count)
	assert.InDelta(t, 40.0, weekend.Median, 1e-9)
}

func TestDayTypeDistribution_Outliers(t *testing.T) {
	v := view(
		rec(1, models.WeatherClear, models.DayTypeWeekday, 10),
		rec(2, models.WeatherClear, models.DayTypeWeekday, 11),
		rec(3, models.WeatherClear, models.DayTypeWeekday, 12),
		rec(4, models.WeatherClear, models.DayTypeWeekday, 13),
		rec(5, models.WeatherClear, models.DayTypeWeekday, 1000),
	)

	got := charts.DayTypeDistribution(v)
	require.Len(t, got, 1)

	assert.Equal(t, []float64{1000}, got[0].Outliers)
	assert.InDelta(t, 13.0, got[0].UpperWhisker, 1e-9)
	assert.InDelta(t, 1000.0, got[0].Max, 1e-9)
}

func TestRenderer_DayTypeBoxOutliers(t *testing.T) {
	tests := []struct {
		name        string
		outliers    []float64
		wantScatter bool
	}{
		{name: "with outliers", outliers: []float64{1000, 1200}, wantScatter: true},
		{name: "without outliers", outliers: nil, wantScatter: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := []models.BoxStats{{
				DayType:      models.DayTypeWeekday,
				Count:        5,
				LowerWhisker: 10,
				Q1:           11,
				Median:       12,
				Q3:           13,
				UpperWhisker: 13,
				Outliers:     tt.outliers,
			}}

			box := charts.NewRenderer().DayTypeBox(stats)

			var buf bytes.Buffer
			require.NoError(t, box.Render(&buf))
			out := buf.String()
			assert.Contains(t, out, "Daily rides")
			if tt.wantScatter {
				assert.Len(t, box.MultiSeries, 2)
				assert.Contains(t, out, "Outliers")
				assert.Contains(t, out, `"type":"scatter"`)
				assert.Contains(t, out, "1200")
			} else {
				assert.Len(t, box.MultiSeries, 1)
				assert.NotContains(t, out, `"type":"scatter"`)
			}
		})
	}
}

func TestDayTypeDistribution_DoesNotMutate(t *testing.T) {
	v := view(
		rec(1, models.WeatherClear, models.DayTypeWeekday, 30),
		rec(2, models.WeatherClear, models.DayTypeWeekday, 10),
		rec(3, models.WeatherClear, models.DayTypeWeekday, 20),
	)

	charts.DayTypeDistribution(v)

	assert.Equal(t, 30, v.Records[0].Count)
	assert.Equal(t, 10, v.Records[1].Count)
}

func TestRenderer_Page(t *testing.T) {
	v := view(
		rec(1, models.WeatherClear, models.DayTypeWeekday, 100),
		rec(2, models.WeatherCloudy, models.DayTypeWeekend, 200),
	)
	d := &models.Dashboard{
		WeatherImpact: charts.WeatherImpact(v),
		DayTypeSpread: charts.DayTypeDistribution(v),
		RFM: models.Section[models.RFMSegmentation]{
			Data: &models.RFMSegmentation{
				MonetaryByCluster: []models.ClusterTotal{{Cluster: 0, Total: 300, Members: 2}},
			},
		},
		HourlyClusters: models.Section[models.HourlySegmentation]{Notice: "not enough data"},
	}

	var buf bytes.Buffer
	require.NoError(t, charts.NewRenderer().RenderPage(&buf, d))

	html := buf.String()
	assert.Contains(t, html, "Weather Impact on Rentals")
	assert.Contains(t, html, "Weekday vs Weekend Rentals")
	assert.Contains(t, html, "RFM Segmentation")
	assert.NotContains(t, html, "Hourly Usage Clusters")
}

func TestRenderer_EmptyCharts(t *testing.T) {
	r := charts.NewRenderer()

	var buf bytes.Buffer
	require.NoError(t, r.WeatherBar(nil).Render(&buf))
	assert.Contains(t, buf.String(), "Weather Impact on Rentals")

	buf.Reset()
	require.NoError(t, r.HourlyBar(nil).Render(&buf))
	assert.Contains(t, buf.String(), "Hourly Usage Clusters")
}

func TestRenderer_TabPage(t *testing.T) {
	d := &models.Dashboard{
		RFM: models.Section[models.RFMSegmentation]{
			Data: &models.RFMSegmentation{MonetaryByCluster: []models.ClusterTotal{{Cluster: 1, Total: 5}}},
		},
	}
	r := charts.NewRenderer()

	tests := []struct {
		tab     string
		want    string
		notWant string
	}{
		{tab: charts.TabWeather, want: "Weather Impact on Rentals", notWant: "RFM Segmentation"},
		{tab: charts.TabDayType, want: "Weekday vs Weekend Rentals", notWant: "Weather Impact on Rentals"},
		{tab: charts.TabAdvanced, want: "RFM Segmentation", notWant: "Weekday vs Weekend Rentals"},
	}

	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.RenderTab(&buf, d, tt.tab))
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), tt.notWant)
		})
	}

	var buf bytes.Buffer
	assert.ErrorIs(t, r.RenderTab(&buf, d, "pie"), charts.ErrUnknownTab)
}
