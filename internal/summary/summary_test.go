package summary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/summary"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2012, 3, d, 0, 0, 0, 0, time.UTC)
}

func view(counts ...int) models.FilteredView {
	v := models.FilteredView{TotalRows: len(counts)}
	for i, c := range counts {
		v.Records = append(v.Records, models.DailyRecord{Date: day(i + 1), Count: c})
	}
	return v
}

func TestSummarize(t *testing.T) {
	s := summary.Summarize(view(10, 20, 30))

	assert.Equal(t, 60, s.Total)
	require.NotNil(t, s.Average)
	assert.InDelta(t, 20.0, *s.Average, 1e-9)
	require.NotNil(t, s.PeakDay)
	assert.Equal(t, day(3), *s.PeakDay)

	assert.Equal(t, "60", s.TotalText)
	assert.Equal(t, "20.00", s.AverageText)
	assert.Equal(t, "2012-03-03", s.PeakDayText)
	assert.True(t, s.HasData())
}

func TestSummarize_Empty(t *testing.T) {
	s := summary.Summarize(models.FilteredView{TotalRows: 10})

	assert.Equal(t, 0, s.Total)
	assert.Nil(t, s.Average)
	assert.Nil(t, s.PeakDay)
	assert.Equal(t, "0", s.TotalText)
	assert.Equal(t, models.NoData, s.AverageText)
	assert.Equal(t, models.NoData, s.PeakDayText)
	assert.False(t, s.HasData())
}

func TestSummarize_PeakTieBreak(t *testing.T) {
	v := models.FilteredView{Records: []models.DailyRecord{
		{Date: day(1), Count: 5},
		{Date: day(2), Count: 9},
		{Date: day(3), Count: 9},
	}}

	s := summary.Summarize(v)

	assert.Equal(t, day(2), *s.PeakDay)
}

func TestSummarize_AllZeroCounts(t *testing.T) {
	s := summary.Summarize(view(0, 0))

	assert.Equal(t, 0, s.Total)
	require.NotNil(t, s.Average)
	assert.Zero(t, *s.Average)
	assert.Equal(t, day(1), *s.PeakDay)
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{3292679, "3,292,679"},
		{-12345, "-12,345"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, summary.FormatThousands(tt.in))
	}
}

func TestFormatAverage(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4504.3488, "4,504.35"},
		{1234.5, "1,234.50"},
		{20, "20.00"},
		{0.5, "0.50"},
		{1234567.891, "1,234,567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, summary.FormatAverage(tt.in))
	}
}
