package models

import "time"

// FilterCriteria is the user's current selection on the dashboard sidebar.
type FilterCriteria struct {
	Start    time.Time         `json:"start"`
	End      time.Time         `json:"end"`
	Weather  []WeatherCategory `json:"weather"`
	DayTypes []DayType         `json:"day_types"`
}

func (c FilterCriteria) AcceptsWeather(w WeatherCategory) bool {
	for _, v := range c.Weather {
		if v == w {
			return true
		}
	}
	return false
}

func (c FilterCriteria) AcceptsDayType(d DayType) bool {
	for _, v := range c.DayTypes {
		if v == d {
			return true
		}
	}
	return false
}

// FilteredView is the subset of daily records matching a FilterCriteria,
// ordered by ascending date.
type FilteredView struct {
	Criteria  FilterCriteria `json:"criteria"`
	Records   []DailyRecord  `json:"-"`
	TotalRows int            `json:"total_rows"`
}

func (v FilteredView) Len() int {
	return len(v.Records)
}

func (v FilteredView) IsEmpty() bool {
	return len(v.Records) == 0
}
