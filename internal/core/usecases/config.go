package usecases

import (
	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/config"
)

// PlannerConfigFrom builds the planner settings from the loaded config.
func PlannerConfigFrom(cfg *config.Config) PlannerConfig {
	return PlannerConfig{
		Region:  cfg.Geocoder.Region,
		Country: cfg.Geocoder.Country,
		Timeout: cfg.Planner.Timeout,
		Locale:  Locale(cfg.UI.Locale),
		View: MapView{
			Center:      domain.GeoPoint{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
			Zoom:        cfg.Map.Zoom,
			TileURL:     cfg.Map.TileURL,
			Attribution: cfg.Map.Attribution,
			RouteStyle:  domain.PathStyle{Color: cfg.Map.RouteColor},
		},
	}
}
