package domain

// GeoPoint represents a geographic coordinate (WGS 84) in map order.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Coordinate is a (longitude, latitude) pair, the axis order used by the
// geocoding and routing APIs.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Point swaps the coordinate into map (lat, lon) order.
func (c Coordinate) Point() GeoPoint {
	return GeoPoint{Lat: c.Lat, Lon: c.Lon}
}

// Pair returns the coordinate as a [lon, lat] array for JSON request bodies.
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.Lon, c.Lat}
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}
