package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/go-multierror"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")
)

// CriteriaQuery is the raw sidebar selection as it arrives in a query string.
type CriteriaQuery struct {
	Start     string   `form:"start" json:"start"`
	End       string   `form:"end" json:"end"`
	Weather   []string `form:"weather" json:"weather"`
	DayTypes  []string `form:"day_type" json:"day_type"`
	Submitted bool     `form:"submitted" json:"submitted"`
}

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// ParseDate accepts a calendar date in YYYY-MM-DD form.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, SanitizeString(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD form, got %q", ErrInvalidInput, field, value)
	}
	return t, nil
}

// ParseWeather matches a weather label ignoring case.
func ParseWeather(value string) (models.WeatherCategory, error) {
	value = SanitizeString(value)
	for _, w := range models.AllWeather {
		if strings.EqualFold(string(w), value) {
			return w, nil
		}
	}
	return models.WeatherUnknown, fmt.Errorf("%w: unknown weather %q", ErrInvalidInput, value)
}

func ParseDayType(value string) (models.DayType, error) {
	value = SanitizeString(value)
	for _, d := range models.AllDayTypes {
		if strings.EqualFold(string(d), value) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown day type %q", ErrInvalidInput, value)
}

// Criteria turns a query into filter criteria. Fields the user has not
// touched fall back to defaults: the full date span and every weather label
// and day type present. After an explicit submit an absent multi-select
// means nothing is selected. The date order is left to the filter.
func Criteria(q CriteriaQuery, defaults models.FilterCriteria) (models.FilterCriteria, error) {
	var result *multierror.Error
	criteria := defaults

	start, end := SanitizeString(q.Start), SanitizeString(q.End)
	switch {
	case start == "" && end == "":
	case start == "" || end == "":
		result = multierror.Append(result, fmt.Errorf("%w: both start and end dates are required", ErrInvalidInput))
	default:
		s, err := ParseDate("start", start)
		if err != nil {
			result = multierror.Append(result, err)
		}
		e, err := ParseDate("end", end)
		if err != nil {
			result = multierror.Append(result, err)
		}
		criteria.Start, criteria.End = s, e
	}

	if q.Submitted || len(q.Weather) > 0 {
		criteria.Weather = []models.WeatherCategory{}
		for _, v := range q.Weather {
			w, err := ParseWeather(v)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			if !criteria.AcceptsWeather(w) {
				criteria.Weather = append(criteria.Weather, w)
			}
		}
	}

	if q.Submitted || len(q.DayTypes) > 0 {
		criteria.DayTypes = []models.DayType{}
		for _, v := range q.DayTypes {
			d, err := ParseDayType(v)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			if !criteria.AcceptsDayType(d) {
				criteria.DayTypes = append(criteria.DayTypes, d)
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return models.FilterCriteria{}, err
	}
	return criteria, nil
}

// Encode writes criteria back as an explicit submit, so the query reproduces
// the same selection even when a multi-select is empty.
func Encode(c models.FilterCriteria) url.Values {
	v := url.Values{}
	if !c.Start.IsZero() {
		v.Set("start", c.Start.Format(models.DateLayout))
	}
	if !c.End.IsZero() {
		v.Set("end", c.End.Format(models.DateLayout))
	}
	for _, w := range c.Weather {
		v.Add("weather", string(w))
	}
	for _, d := range c.DayTypes {
		v.Add("day_type", string(d))
	}
	v.Set("submitted", "1")
	return v
}
