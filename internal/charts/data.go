package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

// WhiskerRange is the IQR multiple beyond which a value is an outlier.
const WhiskerRange = 1.5

// WeatherImpact sums rides per weather label present in the view. Bars are
// ordered by descending total, ties by label.
func WeatherImpact(view models.FilteredView) []models.CategoryTotal {
	totals := make(map[models.WeatherCategory]int)
	for _, rec := range view.Records {
		totals[rec.Weather] += rec.Count
	}

	out := make([]models.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, models.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// DayTypeDistribution computes box statistics of daily counts for every day
// type present in the view, weekday first.
func DayTypeDistribution(view models.FilteredView) []models.BoxStats {
	groups := make(map[models.DayType][]float64)
	for _, rec := range view.Records {
		groups[rec.DayType] = append(groups[rec.DayType], float64(rec.Count))
	}

	var out []models.BoxStats
	for _, dt := range models.AllDayTypes {
		values, ok := groups[dt]
		if !ok {
			continue
		}
		out = append(out, boxStats(dt, values))
	}
	return out
}

func boxStats(dt models.DayType, values []float64) models.BoxStats {
	sort.Float64s(values)

	bs := models.BoxStats{
		DayType: dt,
		Count:   len(values),
		Min:     floats.Min(values),
		Q1:      quantile(0.25, values),
		Median:  quantile(0.5, values),
		Q3:      quantile(0.75, values),
		Max:     floats.Max(values),
	}

	iqr := bs.Q3 - bs.Q1
	lowFence := bs.Q1 - WhiskerRange*iqr
	highFence := bs.Q3 + WhiskerRange*iqr

	bs.LowerWhisker, bs.UpperWhisker = bs.Max, bs.Min
	for _, v := range values {
		if v < lowFence || v > highFence {
			bs.Outliers = append(bs.Outliers, v)
			continue
		}
		if v < bs.LowerWhisker {
			bs.LowerWhisker = v
		}
		if v > bs.UpperWhisker {
			bs.UpperWhisker = v
		}
	}
	return bs
}

// quantile interpolates linearly between the closest ranks of sorted, the
// same rule matplotlib box plots use. gonum's stat.LinInterp follows a
// different rule that puts the median of 1..5 at 2.5.
func quantile(p float64, sorted []float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
