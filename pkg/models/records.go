package models

import "time"

type WeatherCategory string

const (
	WeatherClear     WeatherCategory = "Clear"
	WeatherCloudy    WeatherCategory = "Cloudy"
	WeatherLightRain WeatherCategory = "Light Rain"
	WeatherHeavyRain WeatherCategory = "Heavy Rain"
	// WeatherUnknown marks a weathersit code outside the mapping table.
	WeatherUnknown WeatherCategory = ""
)

// WeatherLabels maps the dataset's weathersit codes to display labels.
var WeatherLabels = map[int]WeatherCategory{
	1: WeatherClear,
	2: WeatherCloudy,
	3: WeatherLightRain,
	4: WeatherHeavyRain,
}

// AllWeather lists the weather labels in code order.
var AllWeather = []WeatherCategory{WeatherClear, WeatherCloudy, WeatherLightRain, WeatherHeavyRain}

func (w WeatherCategory) IsKnown() bool {
	switch w {
	case WeatherClear, WeatherCloudy, WeatherLightRain, WeatherHeavyRain:
		return true
	default:
		return false
	}
}

type DayType string

const (
	DayTypeWeekday DayType = "Weekday"
	DayTypeWeekend DayType = "Weekend"
)

// WeekendIndices are the weekday values (0 = Sunday .. 6 = Saturday) counted as weekend.
var WeekendIndices = map[int]bool{0: true, 6: true}

var AllDayTypes = []DayType{DayTypeWeekday, DayTypeWeekend}

func (d DayType) IsKnown() bool {
	return d == DayTypeWeekday || d == DayTypeWeekend
}

// DailyRecord is one row of the daily rentals table.
type DailyRecord struct {
	Date        time.Time       `json:"date"`
	WeatherCode int             `json:"weather_code"`
	Weather     WeatherCategory `json:"weather"`
	Weekday     int             `json:"weekday"`
	DayType     DayType         `json:"day_type"`
	Count       int             `json:"count"`
}

// HourlyRecord is one row of the hourly rentals table. Lat and Long are nil
// when the source file carries no coordinates.
type HourlyRecord struct {
	Date  time.Time `json:"date"`
	Hour  int       `json:"hour"`
	Count int       `json:"count"`
	Lat   *float64  `json:"lat,omitempty"`
	Long  *float64  `json:"long,omitempty"`
}

func (h HourlyRecord) HasCoordinates() bool {
	return h.Lat != nil && h.Long != nil
}
