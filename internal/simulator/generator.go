package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

// weatherEffect is the share of normal demand kept under each weathersit code.
var weatherEffect = map[int]float64{1: 1.0, 2: 0.85, 3: 0.45, 4: 0.2}

// weatherTransitions[from] lists cumulative probabilities of the next day's
// code 1..4. Weather tends to persist.
var weatherTransitions = map[int][4]float64{
	1: {0.70, 0.92, 0.995, 1},
	2: {0.40, 0.80, 0.98, 1},
	3: {0.35, 0.70, 0.95, 1},
	4: {0.30, 0.65, 0.95, 1},
}

type Station struct {
	Lat float64
	Lng float64
}

type Config struct {
	Start     time.Time
	Days      int
	BaseDaily int
	Variance  float64
	Seed      int64
	Pattern   Pattern
	Spikes    []Spike

	// Geo adds lat/long columns to the hourly table.
	Geo      bool
	Center   Station
	Stations int
	Spread   float64
}

func DefaultConfig() Config {
	return Config{
		Start:     time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:      731,
		BaseDaily: 4500,
		Variance:  0.12,
		Seed:      42,
		Pattern:   ParsePattern("realistic"),
		Center:    Station{Lat: 38.9072, Lng: -77.0369},
		Stations:  25,
		Spread:    0.03,
	}
}

type Dataset struct {
	Daily  []models.DailyRecord
	Hourly []models.HourlyRecord
	HasGeo bool
}

// Generate produces a daily table and an hourly table whose per-day sums
// match the daily counts. The same Config always yields the same dataset.
func Generate(cfg Config) Dataset {
	def := DefaultConfig()
	if cfg.Start.IsZero() {
		cfg.Start = def.Start
	}
	if cfg.Days <= 0 {
		cfg.Days = def.Days
	}
	if cfg.BaseDaily <= 0 {
		cfg.BaseDaily = def.BaseDaily
	}
	if cfg.Pattern == nil {
		cfg.Pattern = PatternSteady
	}
	if cfg.Geo && cfg.Stations <= 0 {
		cfg.Stations = def.Stations
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	stations := makeStations(cfg, rng)

	spikes := make(map[time.Time]float64)
	for _, s := range cfg.Spikes {
		spikes[models.TruncateDay(s.Date)] = s.Factor
	}

	ds := Dataset{
		Daily:  make([]models.DailyRecord, 0, cfg.Days),
		Hourly: make([]models.HourlyRecord, 0, cfg.Days*24),
		HasGeo: cfg.Geo,
	}

	code := 1
	start := models.TruncateDay(cfg.Start)
	for i := 0; i < cfg.Days; i++ {
		date := start.AddDate(0, 0, i)
		code = nextWeather(code, rng)

		expected := float64(cfg.BaseDaily) * cfg.Pattern.Factor(date) * weatherEffect[code]
		if f, ok := spikes[date]; ok {
			expected *= f
		}
		expected *= 1 + cfg.Variance*rng.NormFloat64()
		count := int(math.Max(0, math.Round(expected)))

		weekday := int(date.Weekday())
		dayType := models.DayTypeWeekday
		if models.WeekendIndices[weekday] {
			dayType = models.DayTypeWeekend
		}
		ds.Daily = append(ds.Daily, models.DailyRecord{
			Date:        date,
			WeatherCode: code,
			Weather:     models.WeatherLabels[code],
			Weekday:     weekday,
			DayType:     dayType,
			Count:       count,
		})

		ds.Hourly = append(ds.Hourly, splitHours(date, count, dayType == models.DayTypeWeekend, stations, rng)...)
	}
	return ds
}

func nextWeather(prev int, rng *rand.Rand) int {
	r := rng.Float64()
	for i, p := range weatherTransitions[prev] {
		if r < p {
			return i + 1
		}
	}
	return 1
}

func makeStations(cfg Config, rng *rand.Rand) []Station {
	if !cfg.Geo {
		return nil
	}
	stations := make([]Station, cfg.Stations)
	for i := range stations {
		stations[i] = Station{
			Lat: cfg.Center.Lat + cfg.Spread*rng.NormFloat64(),
			Lng: cfg.Center.Lng + cfg.Spread*rng.NormFloat64(),
		}
	}
	return stations
}

// splitHours distributes count over 24 hours following the day's shape. The
// last hour absorbs rounding so the hours sum to count exactly.
func splitHours(date time.Time, count int, weekend bool, stations []Station, rng *rand.Rand) []models.HourlyRecord {
	shape := hourlyShape(weekend)
	records := make([]models.HourlyRecord, 24)

	remaining := count
	for h := 0; h < 24; h++ {
		n := remaining
		if h < 23 {
			n = int(math.Round(float64(count) * shape[h]))
			if n > remaining {
				n = remaining
			}
		}
		remaining -= n

		records[h] = models.HourlyRecord{Date: date, Hour: h, Count: n}
		if len(stations) > 0 {
			s := stations[rng.Intn(len(stations))]
			lat, lng := s.Lat, s.Lng
			records[h].Lat, records[h].Long = &lat, &lng
		}
	}
	return records
}
