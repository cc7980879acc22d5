package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/internal/loader"
	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

var (
	// ErrInvalidFormat is returned when a cell cannot be converted to its column type.
	ErrInvalidFormat = errors.New("invalid format")
)

// Column names of the input files.
const (
	ColDate      = "dteday"
	ColWeather   = "weathersit"
	ColWeekday   = "weekday"
	ColCount     = "cnt"
	ColHour      = "hr"
	ColLatitude  = "lat"
	ColLongitude = "long"
)

var DailyColumns = []string{ColDate, ColWeather, ColWeekday, ColCount}

var HourlyColumns = []string{ColDate, ColHour, ColCount}

var dateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a date cell and returns it truncated to the day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrInvalidFormat, s)
}

// WeatherLabel maps a weathersit code to its label. Codes outside the table
// map to WeatherUnknown.
func WeatherLabel(code int) models.WeatherCategory {
	if label, ok := models.WeatherLabels[code]; ok {
		return label
	}
	return models.WeatherUnknown
}

// ClassifyDay returns Weekend for weekday indices 0 and 6, Weekday otherwise.
func ClassifyDay(weekday int) models.DayType {
	if models.WeekendIndices[weekday] {
		return models.DayTypeWeekend
	}
	return models.DayTypeWeekday
}

// Daily converts the daily table into records sorted by date.
func Daily(table *loader.Table) ([]models.DailyRecord, error) {
	if err := table.RequireColumns(DailyColumns...); err != nil {
		return nil, err
	}

	dates, err := table.Strings(ColDate)
	if err != nil {
		return nil, err
	}
	weather, err := intColumn(table, ColWeather)
	if err != nil {
		return nil, err
	}
	weekdays, err := intColumn(table, ColWeekday)
	if err != nil {
		return nil, err
	}
	counts, err := intColumn(table, ColCount)
	if err != nil {
		return nil, err
	}

	records := make([]models.DailyRecord, 0, len(dates))
	seen := make(map[time.Time]bool, len(dates))
	unknown := 0

	for i, raw := range dates {
		date, err := ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table.Name(), i+1, err)
		}
		if seen[date] {
			return nil, fmt.Errorf("%w: %s has more than one row for %s", ErrInvalidFormat, table.Name(), date.Format(models.DateLayout))
		}
		seen[date] = true

		if counts[i] < 0 {
			return nil, fmt.Errorf("%w: %s row %d: negative count %d", ErrInvalidFormat, table.Name(), i+1, counts[i])
		}

		label := WeatherLabel(weather[i])
		if label == models.WeatherUnknown {
			unknown++
		}

		records = append(records, models.DailyRecord{
			Date:        date,
			WeatherCode: weather[i],
			Weather:     label,
			Weekday:     weekdays[i],
			DayType:     ClassifyDay(weekdays[i]),
			Count:       counts[i],
		})
	}

	if unknown > 0 {
		logger.WithFields(map[string]interface{}{
			"table": table.Name(),
			"rows":  unknown,
		}).Warn("rows with unmapped weather code are excluded from filtered views")
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records, nil
}

// Hourly converts the hourly table into records. Coordinates are read only
// when both the lat and long columns exist.
func Hourly(table *loader.Table) ([]models.HourlyRecord, error) {
	if err := table.RequireColumns(HourlyColumns...); err != nil {
		return nil, err
	}

	dates, err := table.Strings(ColDate)
	if err != nil {
		return nil, err
	}
	hours, err := intColumn(table, ColHour)
	if err != nil {
		return nil, err
	}
	counts, err := intColumn(table, ColCount)
	if err != nil {
		return nil, err
	}

	var lats, longs []float64
	hasGeo := HasCoordinates(table)
	if hasGeo {
		if lats, err = table.Floats(ColLatitude); err != nil {
			return nil, err
		}
		if longs, err = table.Floats(ColLongitude); err != nil {
			return nil, err
		}
	}

	records := make([]models.HourlyRecord, 0, len(dates))
	for i, raw := range dates {
		date, err := ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table.Name(), i+1, err)
		}
		if hours[i] < 0 || hours[i] > 23 {
			return nil, fmt.Errorf("%w: %s row %d: hour %d outside 0-23", ErrInvalidFormat, table.Name(), i+1, hours[i])
		}
		if counts[i] < 0 {
			return nil, fmt.Errorf("%w: %s row %d: negative count %d", ErrInvalidFormat, table.Name(), i+1, counts[i])
		}

		rec := models.HourlyRecord{
			Date:  date,
			Hour:  hours[i],
			Count: counts[i],
		}
		if hasGeo {
			if math.IsNaN(lats[i]) || math.IsNaN(longs[i]) {
				return nil, fmt.Errorf("%w: %s row %d: invalid coordinates", ErrInvalidFormat, table.Name(), i+1)
			}
			lat, long := lats[i], longs[i]
			rec.Lat = &lat
			rec.Long = &long
		}
		records = append(records, rec)
	}

	return records, nil
}

func HasCoordinates(table *loader.Table) bool {
	return table.HasColumn(ColLatitude) && table.HasColumn(ColLongitude)
}

func intColumn(table *loader.Table, col string) ([]int, error) {
	values, err := table.Ints(col)
	if err != nil {
		if errors.Is(err, loader.ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, table.Name(), err)
	}
	return values, nil
}
