package summary

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

var displayLanguage = language.English

// Summarize computes the headline metrics of a filtered view. The peak day is
// the earliest date holding the maximum count.
func Summarize(view models.FilteredView) models.Summary {
	s := models.Summary{
		Rows:        view.Len(),
		TotalText:   "0",
		AverageText: models.NoData,
		PeakDayText: models.NoData,
	}
	if view.IsEmpty() {
		return s
	}

	peak := view.Records[0]
	for _, rec := range view.Records {
		s.Total += rec.Count
		if rec.Count > peak.Count || (rec.Count == peak.Count && rec.Date.Before(peak.Date)) {
			peak = rec
		}
	}

	avg := float64(s.Total) / float64(view.Len())
	peakDay := peak.Date

	s.Average = &avg
	s.PeakDay = &peakDay
	s.TotalText = FormatThousands(s.Total)
	s.AverageText = FormatAverage(avg)
	s.PeakDayText = peakDay.Format(models.DateLayout)
	return s
}

// FormatThousands renders n with comma group separators, e.g. 1234567 -> "1,234,567".
func FormatThousands(n int) string {
	return message.NewPrinter(displayLanguage).Sprintf("%d", n)
}

// FormatAverage renders a mean with two decimals and group separators.
func FormatAverage(v float64) string {
	return message.NewPrinter(displayLanguage).Sprintf("%.2f", v)
}
