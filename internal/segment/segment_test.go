package segment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/segment"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2011, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestMinMax(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{name: "empty", input: nil, expected: []float64{}},
		{name: "constant", input: []float64{5, 5, 5}, expected: []float64{0, 0, 0}},
		{name: "range", input: []float64{10, 20, 30}, expected: []float64{0, 0.5, 1}},
		{name: "negative", input: []float64{-2, 0, 2}, expected: []float64{0, 0.5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segment.MinMax(tt.input)
			require.Len(t, got, len(tt.expected))
			for i := range got {
				assert.InDelta(t, tt.expected[i], got[i], 1e-12)
			}
		})
	}
}

func TestKMeans_SeparatesObviousGroups(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1},
		{20, 0}, {20.1, 0}, {20, 0.1},
	}

	res, err := segment.DefaultKMeans().Fit(points)
	require.NoError(t, err)

	require.Len(t, res.Labels, len(points))
	for g := 0; g < 3; g++ {
		base := res.Labels[g*3]
		assert.Equal(t, base, res.Labels[g*3+1])
		assert.Equal(t, base, res.Labels[g*3+2])
	}
	assert.NotEqual(t, res.Labels[0], res.Labels[3])
	assert.NotEqual(t, res.Labels[3], res.Labels[6])
	assert.NotEqual(t, res.Labels[0], res.Labels[6])
	assert.Equal(t, []int{3, 3, 3}, sorted(res.Sizes()))
	assert.Less(t, res.Inertia, 0.2)
}

func TestKMeans_Deterministic(t *testing.T) {
	points := make([][]float64, 0, 60)
	for i := 0; i < 60; i++ {
		points = append(points, []float64{float64((i * 37) % 101), float64((i * 11) % 17)})
	}

	km := segment.DefaultKMeans()
	first, err := km.Fit(points)
	require.NoError(t, err)
	second, err := km.Fit(points)
	require.NoError(t, err)

	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.Inertia, second.Inertia)
}

func TestKMeans_DegenerateInputs(t *testing.T) {
	t.Run("fewer points than clusters", func(t *testing.T) {
		_, err := segment.DefaultKMeans().Fit([][]float64{{1}, {2}})
		assert.ErrorIs(t, err, segment.ErrTooFewPoints)
	})

	t.Run("identical points", func(t *testing.T) {
		res, err := segment.DefaultKMeans().Fit([][]float64{{4}, {4}, {4}, {4}})
		require.NoError(t, err)
		assert.Len(t, res.Labels, 4)
		assert.Zero(t, res.Inertia)
	})

	t.Run("ragged dimensions", func(t *testing.T) {
		_, err := segment.DefaultKMeans().Fit([][]float64{{1, 2}, {3}, {4, 5}})
		assert.ErrorIs(t, err, segment.ErrInvalidInput)
	})

	t.Run("exactly k points", func(t *testing.T) {
		res, err := segment.DefaultKMeans().Fit([][]float64{{1}, {5}, {9}})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 1, 1}, res.Sizes())
		assert.Zero(t, res.Inertia)
	})
}

func TestRFM(t *testing.T) {
	counts := []int{100, 110, 105, 5000, 5100, 4900, 9000, 9100, 8900}
	records := make([]models.DailyRecord, len(counts))
	for i, c := range counts {
		records[i] = models.DailyRecord{Date: day(i + 1), Count: c}
	}

	seg, err := segment.RFM(records, segment.DefaultKMeans())
	require.NoError(t, err)

	require.Len(t, seg.Rows, len(counts))
	assert.Len(t, seg.Assignments, len(counts))
	assert.Equal(t, "2011-01-01", seg.Assignments[0].Key)

	first, last := seg.Rows[0], seg.Rows[len(seg.Rows)-1]
	assert.Equal(t, 8, first.Recency)
	assert.Equal(t, 0, last.Recency)
	for _, row := range seg.Rows {
		assert.Equal(t, 1, row.Frequency)
		assert.Zero(t, row.Scaled[1])
		for _, v := range row.Scaled {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	total := 0
	members := 0
	for _, ct := range seg.MonetaryByCluster {
		total += ct.Total
		members += ct.Members
	}
	assert.Equal(t, sum(counts), total)
	assert.Equal(t, len(counts), members)

	again, err := segment.RFM(records, segment.DefaultKMeans())
	require.NoError(t, err)
	assert.Equal(t, seg.Assignments, again.Assignments)
}

func TestRFM_TooFewDates(t *testing.T) {
	records := []models.DailyRecord{
		{Date: day(1), Count: 10},
		{Date: day(2), Count: 20},
	}

	_, err := segment.RFM(records, segment.DefaultKMeans())
	assert.ErrorIs(t, err, segment.ErrTooFewPoints)

	_, err = segment.RFM(nil, segment.DefaultKMeans())
	assert.ErrorIs(t, err, segment.ErrTooFewPoints)
}

func TestHourlyTotals(t *testing.T) {
	records := []models.HourlyRecord{
		{Date: day(1), Hour: 8, Count: 100},
		{Date: day(2), Hour: 8, Count: 50},
		{Date: day(1), Hour: 17, Count: 70},
	}

	buckets := segment.HourlyTotals(records)

	require.Len(t, buckets, 24)
	for h, b := range buckets {
		assert.Equal(t, h, b.Hour)
	}
	assert.Equal(t, 150, buckets[8].TotalRides)
	assert.Equal(t, 70, buckets[17].TotalRides)
	assert.Zero(t, buckets[3].TotalRides)
}

func TestHourly(t *testing.T) {
	var records []models.HourlyRecord
	for h := 0; h < 24; h++ {
		count := 10
		switch {
		case h == 8 || h == 17 || h == 18:
			count = 1000
		case h >= 10 && h <= 15:
			count = 400
		}
		records = append(records, models.HourlyRecord{Date: day(1), Hour: h, Count: count})
	}

	seg, err := segment.Hourly(records, segment.DefaultKMeans())
	require.NoError(t, err)

	require.Len(t, seg.Buckets, 24)
	require.Len(t, seg.Assignments, 24)
	peak := seg.Buckets[8].Cluster
	assert.Equal(t, peak, seg.Buckets[17].Cluster)
	assert.Equal(t, peak, seg.Buckets[18].Cluster)
	assert.NotEqual(t, peak, seg.Buckets[12].Cluster)
	assert.NotEqual(t, peak, seg.Buckets[2].Cluster)
	assert.NotEqual(t, seg.Buckets[12].Cluster, seg.Buckets[2].Cluster)
	assert.Equal(t, "8", seg.Assignments[8].Key)
}

func TestHourly_NoRecords(t *testing.T) {
	seg, err := segment.Hourly(nil, segment.DefaultKMeans())
	require.NoError(t, err)

	require.Len(t, seg.Buckets, 24)
	for _, b := range seg.Buckets {
		assert.Zero(t, b.TotalRides)
	}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func sorted(values []int) []int {
	out := append([]int(nil), values...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
