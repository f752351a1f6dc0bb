package usecases

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// GeocodeService is a read-through cache in front of a Geocoder.
// Only matches are cached; misses and errors always reach the upstream.
type GeocodeService struct {
	geocoder ports.Geocoder
	cache    ports.CacheService
	scope    string
	ttl      int
}

// NewGeocodeService wraps geocoder. A nil cache or ttl <= 0 disables caching.
func NewGeocodeService(geocoder ports.Geocoder, cache ports.CacheService, scope string, ttlSeconds int) *GeocodeService {
	return &GeocodeService{geocoder: geocoder, cache: cache, scope: scope, ttl: ttlSeconds}
}

func (s *GeocodeService) cacheKey(query string) string {
	return "geocode:" + s.scope + ":" + strings.ToLower(strings.TrimSpace(query))
}

// Geocode implements ports.Geocoder.
func (s *GeocodeService) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	useCache := s.cache != nil && s.ttl > 0
	key := s.cacheKey(query)

	if useCache {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var c domain.Coordinate
			if err := json.Unmarshal(data, &c); err == nil {
				metrics.CacheHits.WithLabelValues("geocode").Inc()
				return &c, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("geocode").Inc()
	}

	c, err := s.geocoder.Geocode(ctx, query)
	if err != nil || c == nil {
		return c, err
	}

	if useCache {
		if data, err := json.Marshal(c); err == nil {
			_ = s.cache.Set(ctx, key, data, s.ttl)
		}
	}
	return c, nil
}
