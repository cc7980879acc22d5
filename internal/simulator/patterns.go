package simulator

import (
	"math"
	"time"
)

// Pattern scales the expected number of rides for a day.
type Pattern interface {
	Factor(date time.Time) float64
	Name() string
}

var (
	PatternSteady   Pattern = &SteadyPattern{}
	PatternWeekly   Pattern = &WeeklyPattern{}
	PatternSeasonal Pattern = &SeasonalPattern{}
	PatternGrowth   Pattern = &GrowthPattern{}
)

func ParsePattern(name string) Pattern {
	switch name {
	case "weekly":
		return PatternWeekly
	case "seasonal":
		return PatternSeasonal
	case "growth":
		return PatternGrowth
	case "realistic":
		return Composite{PatternSeasonal, PatternWeekly, PatternGrowth}
	default:
		return PatternSteady
	}
}

type SteadyPattern struct{}

func (p *SteadyPattern) Factor(time.Time) float64 {
	return 1
}

func (p *SteadyPattern) Name() string {
	return "steady"
}

// WeeklyPattern - fewer rides on weekends
type WeeklyPattern struct{}

func (p *WeeklyPattern) Factor(date time.Time) float64 {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return 0.8
	default:
		return 1.05
	}
}

func (p *WeeklyPattern) Name() string {
	return "weekly"
}

// SeasonalPattern peaks in early summer and bottoms out in mid winter.
type SeasonalPattern struct {
	Amplitude float64
}

func (p *SeasonalPattern) Factor(date time.Time) float64 {
	amp := p.Amplitude
	if amp == 0 {
		amp = 0.45
	}
	// day 172 is around June 21st
	phase := 2 * math.Pi * float64(date.YearDay()-172) / 365
	return 1 + amp*math.Cos(phase)
}

func (p *SeasonalPattern) Name() string {
	return "seasonal"
}

// GrowthPattern - ridership grows year over year
type GrowthPattern struct {
	YearlyRate float64
	Since      time.Time
}

func (p *GrowthPattern) Factor(date time.Time) float64 {
	rate := p.YearlyRate
	if rate == 0 {
		rate = 0.6
	}
	since := p.Since
	if since.IsZero() {
		since = time.Date(date.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		if date.Year() > 2011 {
			since = time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	years := date.Sub(since).Hours() / 24 / 365
	if years < 0 {
		years = 0
	}
	return 1 + rate*years
}

func (p *GrowthPattern) Name() string {
	return "growth"
}

// Composite multiplies the factors of its parts.
type Composite []Pattern

func (c Composite) Factor(date time.Time) float64 {
	f := 1.0
	for _, p := range c {
		f *= p.Factor(date)
	}
	return f
}

func (c Composite) Name() string {
	return "realistic"
}

// Spike multiplies demand on a single date, e.g. a festival.
type Spike struct {
	Date   time.Time
	Factor float64
}

// hourlyShape is the share of a day's rides per hour, weekdays peaking at
// commute times and weekends around midday.
func hourlyShape(weekend bool) [24]float64 {
	var shape [24]float64
	var total float64
	for h := 0; h < 24; h++ {
		var w float64
		if weekend {
			w = 0.2 + 2.2*gauss(float64(h), 14, 3.5)
		} else {
			w = 0.15 + 3*gauss(float64(h), 8, 1) + 3.3*gauss(float64(h), 17.5, 1.3) + 0.6*gauss(float64(h), 12.5, 2)
		}
		if h < 5 {
			w *= 0.3
		}
		shape[h] = w
		total += w
	}
	for h := range shape {
		shape[h] /= total
	}
	return shape
}

func gauss(x, mean, sd float64) float64 {
	d := (x - mean) / sd
	return math.Exp(-d * d / 2)
}
