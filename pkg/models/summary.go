package models

import "time"

// Summary holds the three headline metrics of the dashboard. Average and
// PeakDay are nil when the filtered view is empty.
type Summary struct {
	Total   int        `json:"total"`
	Average *float64   `json:"average"`
	PeakDay *time.Time `json:"peak_day"`
	Rows    int        `json:"rows"`

	TotalText   string `json:"total_text"`
	AverageText string `json:"average_text"`
	PeakDayText string `json:"peak_day_text"`
}

func (s Summary) HasData() bool {
	return s.Average != nil
}
