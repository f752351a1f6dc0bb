package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/geospatial"
	"github.com/samirrijal/routemap/internal/pkg/polyline"
)

// ErrHistoryDisabled is returned by queries when no repository is configured.
var ErrHistoryDisabled = errors.New("lookup history is disabled")

// LookupService records finished cycles and serves the lookup history.
// Every sink is optional.
type LookupService struct {
	repo    ports.LookupRepository
	events  ports.EventPublisher
	archive ports.RouteArchive
}

// NewLookupService creates a new LookupService.
func NewLookupService(repo ports.LookupRepository, events ports.EventPublisher, archive ports.RouteArchive) *LookupService {
	return &LookupService{repo: repo, events: events, archive: archive}
}

// Record implements ports.LookupRecorder. All sinks are attempted; their
// errors are joined.
func (s *LookupService) Record(ctx context.Context, l *domain.Lookup) error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Insert(ctx, l); err != nil {
			errs = append(errs, fmt.Errorf("insert lookup: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.PublishLookup(ctx, l); err != nil {
			errs = append(errs, fmt.Errorf("publish lookup: %w", err))
		}
	}
	if s.archive != nil && l.State == string(StateDone) {
		if data, err := featureJSON(l); err != nil {
			errs = append(errs, err)
		} else if err := s.archive.Put(ctx, l, data); err != nil {
			errs = append(errs, fmt.Errorf("archive lookup: %w", err))
		}
	}
	return errors.Join(errs...)
}

// List returns a page of lookups, newest first, and the total count.
func (s *LookupService) List(ctx context.Context, offset, limit int) ([]domain.Lookup, int, error) {
	if s.repo == nil {
		return nil, 0, ErrHistoryDisabled
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, offset, limit)
}

// GetByID returns one lookup.
func (s *LookupService) GetByID(ctx context.Context, id string) (*domain.Lookup, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.GetByID(ctx, id)
}

// GeoJSON renders a stored lookup as a FeatureCollection.
func (s *LookupService) GeoJSON(ctx context.Context, id string) ([]byte, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return featureJSON(l)
}

func featureJSON(l *domain.Lookup) ([]byte, error) {
	var path []domain.GeoPoint
	if l.Geometry != "" {
		p, err := polyline.Decode(l.Geometry)
		if err != nil {
			return nil, fmt.Errorf("lookup %s geometry: %w", l.ID, err)
		}
		path = p
	}
	data, err := json.Marshal(geospatial.RouteFeatures(l, path))
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}
