package models

// HeatmapPoint is a single weighted sample of the density overlay.
type HeatmapPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HeatmapView is everything the map widget needs. When Available is false
// only Notice is set.
type HeatmapView struct {
	Available bool           `json:"available"`
	Notice    string         `json:"notice,omitempty"`
	Center    LatLng         `json:"center"`
	SouthWest LatLng         `json:"south_west"`
	NorthEast LatLng         `json:"north_east"`
	Zoom      int            `json:"zoom"`
	Points    []HeatmapPoint `json:"points,omitempty"`
	MaxWeight float64        `json:"max_weight"`
}
