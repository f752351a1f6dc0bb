package geospatial

import (
	"github.com/paulmach/orb"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// LineString converts map points into an orb line string (lon, lat order).
func LineString(points []domain.GeoPoint) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

// PathBounds returns the bounding box of a path. ok is false for an empty path.
func PathBounds(points []domain.GeoPoint) (b domain.Bounds, ok bool) {
	if len(points) == 0 {
		return domain.Bounds{}, false
	}
	bound := LineString(points).Bound()
	return domain.Bounds{
		MinLat: bound.Min.Lat(),
		MinLon: bound.Min.Lon(),
		MaxLat: bound.Max.Lat(),
		MaxLon: bound.Max.Lon(),
	}, true
}
