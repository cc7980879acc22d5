package geo

import (
	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

const (
	DefaultZoom = 12

	NoticeNoCoordinates = "geospatial data not found in dataset"
	NoticeNoPoints      = "no geospatial points to display"
)

// Heatmap builds the density overlay from every hourly record. The map is
// centred on the mean coordinate and each point is weighted by its ride
// count. hasCoords reports whether the hourly table carries lat/long columns.
func Heatmap(hourly []models.HourlyRecord, hasCoords bool) models.HeatmapView {
	if !hasCoords {
		return models.HeatmapView{Notice: NoticeNoCoordinates}
	}

	lats := make([]float64, 0, len(hourly))
	lngs := make([]float64, 0, len(hourly))
	mp := make(orb.MultiPoint, 0, len(hourly))
	points := make([]models.HeatmapPoint, 0, len(hourly))

	var maxWeight float64
	for _, rec := range hourly {
		if !rec.HasCoordinates() {
			continue
		}
		lat, lng := *rec.Lat, *rec.Long
		lats = append(lats, lat)
		lngs = append(lngs, lng)
		mp = append(mp, orb.Point{lng, lat})

		w := float64(rec.Count)
		points = append(points, models.HeatmapPoint{Lat: lat, Lng: lng, Weight: w})
		if w > maxWeight {
			maxWeight = w
		}
	}
	if len(points) == 0 {
		return models.HeatmapView{Notice: NoticeNoPoints}
	}

	bound := mp.Bound()
	return models.HeatmapView{
		Available: true,
		Center:    models.LatLng{Lat: stat.Mean(lats, nil), Lng: stat.Mean(lngs, nil)},
		SouthWest: latLng(bound.Min),
		NorthEast: latLng(bound.Max),
		Zoom:      DefaultZoom,
		Points:    points,
		MaxWeight: maxWeight,
	}
}

// HasCoordinates reports whether any record carries a coordinate pair.
func HasCoordinates(hourly []models.HourlyRecord) bool {
	for _, rec := range hourly {
		if rec.HasCoordinates() {
			return true
		}
	}
	return false
}

func latLng(p orb.Point) models.LatLng {
	return models.LatLng{Lat: p.Lat(), Lng: p.Lon()}
}
