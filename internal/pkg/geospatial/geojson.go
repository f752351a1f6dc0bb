package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// RouteFeatures builds a GeoJSON feature collection for a stored lookup:
// the route line plus start and end points.
func RouteFeatures(l *domain.Lookup, path []domain.GeoPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := geojson.NewFeature(LineString(path))
	line.Properties["kind"] = "route"
	line.Properties["distance_m"] = l.DistanceMeters
	line.Properties["duration_s"] = l.DurationSeconds
	line.Properties["lookup_id"] = l.ID
	fc.Append(line)

	if l.Start != nil {
		f := geojson.NewFeature(orb.Point{l.Start.Lon, l.Start.Lat})
		f.Properties["kind"] = "start"
		f.Properties["query"] = l.StartQuery
		fc.Append(f)
	}
	if l.End != nil {
		f := geojson.NewFeature(orb.Point{l.End.Lon, l.End.Lat})
		f.Properties["kind"] = "end"
		f.Properties["query"] = l.EndQuery
		fc.Append(f)
	}

	return fc
}
