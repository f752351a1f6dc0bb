package ports

import (
	"context"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// Geocoder resolves a free-text address to a coordinate.
// A nil coordinate with a nil error means the service had no match.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.Coordinate, error)
}

// Router requests a driving route between two coordinates.
// It returns domain.ErrRouteNotFound when the service has no candidate.
type Router interface {
	Route(ctx context.Context, from, to domain.Coordinate) (*domain.RouteResult, error)
}

// MapPresenter draws overlays on a map widget owned outside this service.
type MapPresenter interface {
	Initialize(ctx context.Context, center domain.GeoPoint, zoom int) error
	AddTileBackground(ctx context.Context, urlTemplate, attribution string) error
	DrawPolyline(ctx context.Context, points []domain.GeoPoint, style domain.PathStyle) (domain.OverlayHandle, error)
	DrawMarker(ctx context.Context, at domain.GeoPoint, popup string, openPopup bool) (domain.OverlayHandle, error)
	RemoveOverlay(ctx context.Context, h domain.OverlayHandle) error
	FitView(ctx context.Context, b domain.Bounds) error
}

// PresenterFactory opens a presenter bound to one map session.
type PresenterFactory interface {
	ForSession(sessionID string) MapPresenter
}

// LookupRecorder receives every finished planning cycle.
type LookupRecorder interface {
	Record(ctx context.Context, lookup *domain.Lookup) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishLookup(ctx context.Context, lookup *domain.Lookup) error
}

// RouteArchive stores finished routes in long-term object storage.
type RouteArchive interface {
	Put(ctx context.Context, lookup *domain.Lookup, geojson []byte) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
