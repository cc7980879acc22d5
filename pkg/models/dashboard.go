package models

import "time"

// Section carries a computed part of the dashboard, or the notice that
// replaces it when the part could not be computed.
type Section[T any] struct {
	Data   *T     `json:"data,omitempty"`
	Notice string `json:"notice,omitempty"`
}

// Dashboard is one full recomputation for a set of criteria.
type Dashboard struct {
	Criteria       FilterCriteria              `json:"criteria"`
	Summary        Summary                     `json:"summary"`
	WeatherImpact  []CategoryTotal             `json:"weather_impact"`
	DayTypeSpread  []BoxStats                  `json:"day_type_spread"`
	RFM            Section[RFMSegmentation]    `json:"rfm"`
	HourlyClusters Section[HourlySegmentation] `json:"hourly_clusters"`
	Map            HeatmapView                 `json:"map"`
	GeneratedAt    time.Time                   `json:"generated_at"`
}

// DatasetInfo describes the loaded tables and the selectable options.
type DatasetInfo struct {
	DailyPath   string            `json:"daily_path"`
	HourlyPath  string            `json:"hourly_path"`
	DailyRows   int               `json:"daily_rows"`
	HourlyRows  int               `json:"hourly_rows"`
	FirstDate   time.Time         `json:"first_date"`
	LastDate    time.Time         `json:"last_date"`
	Weather     []WeatherCategory `json:"weather"`
	DayTypes    []DayType         `json:"day_types"`
	HasGeo      bool              `json:"has_geo"`
	LoadedAt    time.Time         `json:"loaded_at"`
	UnknownRows int               `json:"unknown_weather_rows"`
}
