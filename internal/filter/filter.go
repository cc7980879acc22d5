package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

var (
	// ErrInvalidRange is returned when the criteria's start date is after its end date.
	ErrInvalidRange = errors.New("invalid date range")
)

// Columns of the frame Apply selects on. The row column indexes back into
// the records the frame was built from.
const (
	ColRow     = "row"
	ColDate    = "date"
	ColWeather = "weather"
	ColDayType = "day_type"
)

// Frame lays preprocessed daily records out as a dataframe carrying the
// derived weather and day-type labels. Dates are day-truncated ISO strings,
// so they order lexically.
func Frame(records []models.DailyRecord) dataframe.DataFrame {
	rows := make([]int, len(records))
	dates := make([]string, len(records))
	weather := make([]string, len(records))
	dayTypes := make([]string, len(records))
	for i, rec := range records {
		rows[i] = i
		dates[i] = models.TruncateDay(rec.Date).Format(models.DateLayout)
		weather[i] = string(rec.Weather)
		dayTypes[i] = string(rec.DayType)
	}

	return dataframe.New(
		series.New(rows, series.Int, ColRow),
		series.New(dates, series.String, ColDate),
		series.New(weather, series.String, ColWeather),
		series.New(dayTypes, series.String, ColDayType),
	)
}

// Apply returns the records matching criteria. Dates are compared at day
// granularity and both ends of the range are inclusive. Apply does not
// modify records; the view shares no slice with it.
func Apply(records []models.DailyRecord, criteria models.FilterCriteria) (models.FilteredView, error) {
	start := models.TruncateDay(criteria.Start)
	end := models.TruncateDay(criteria.End)

	if start.After(end) {
		return models.FilteredView{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, start.Format(models.DateLayout), end.Format(models.DateLayout))
	}

	view := models.FilteredView{
		Criteria:  criteria,
		Records:   []models.DailyRecord{},
		TotalRows: len(records),
	}
	if len(records) == 0 {
		return view, nil
	}

	df := Frame(records).
		FilterAggregation(dataframe.And,
			dataframe.F{Colname: ColDate, Comparator: series.GreaterEq, Comparando: start.Format(models.DateLayout)},
			dataframe.F{Colname: ColDate, Comparator: series.LessEq, Comparando: end.Format(models.DateLayout)},
		).
		Filter(dataframe.F{Colname: ColWeather, Comparator: series.In, Comparando: weatherLabels(criteria.Weather)}).
		Filter(dataframe.F{Colname: ColDayType, Comparator: series.In, Comparando: dayTypeLabels(criteria.DayTypes)})
	if df.Err != nil {
		return models.FilteredView{}, fmt.Errorf("failed to filter daily table: %w", df.Err)
	}

	idx, err := df.Col(ColRow).Int()
	if err != nil {
		return models.FilteredView{}, fmt.Errorf("failed to read filtered rows: %w", err)
	}
	view.Records = make([]models.DailyRecord, 0, len(idx))
	for _, i := range idx {
		view.Records = append(view.Records, records[i])
	}
	return view, nil
}

func weatherLabels(ws []models.WeatherCategory) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		if w.IsKnown() {
			out = append(out, string(w))
		}
	}
	return out
}

func dayTypeLabels(ds []models.DayType) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, string(d))
	}
	return out
}

// DefaultCriteria selects everything: the full date span and every weather
// label and day type present in records, in their canonical order.
func DefaultCriteria(records []models.DailyRecord) models.FilterCriteria {
	var criteria models.FilterCriteria
	if len(records) == 0 {
		return criteria
	}

	criteria.Start, criteria.End = DateSpan(records)
	criteria.Weather = PresentWeather(records)
	criteria.DayTypes = PresentDayTypes(records)
	return criteria
}

// DateSpan returns the earliest and latest date in records.
func DateSpan(records []models.DailyRecord) (first, last time.Time) {
	for i, rec := range records {
		if i == 0 || rec.Date.Before(first) {
			first = rec.Date
		}
		if i == 0 || rec.Date.After(last) {
			last = rec.Date
		}
	}
	return first, last
}

func PresentWeather(records []models.DailyRecord) []models.WeatherCategory {
	seen := make(map[models.WeatherCategory]bool)
	for _, rec := range records {
		seen[rec.Weather] = true
	}
	var out []models.WeatherCategory
	for _, w := range models.AllWeather {
		if seen[w] {
			out = append(out, w)
		}
	}
	return out
}

func PresentDayTypes(records []models.DailyRecord) []models.DayType {
	seen := make(map[models.DayType]bool)
	for _, rec := range records {
		seen[rec.DayType] = true
	}
	var out []models.DayType
	for _, d := range models.AllDayTypes {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}
