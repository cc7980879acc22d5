package models

// CategoryTotal is one bar of the weather impact chart.
type CategoryTotal struct {
	Category WeatherCategory `json:"category"`
	Total    int             `json:"total"`
}

// BoxStats describes the distribution of daily counts for one day type.
type BoxStats struct {
	DayType      DayType   `json:"day_type"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}
