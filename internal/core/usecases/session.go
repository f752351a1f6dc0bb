package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
)

// Artifacts is everything one successful cycle puts on the map.
type Artifacts struct {
	Path   []domain.GeoPoint
	Start  domain.GeoPoint
	End    domain.GeoPoint
	Bounds domain.Bounds
	Style  domain.PathStyle
}

// Overlays is a snapshot of what a MapSession currently shows.
type Overlays struct {
	Seq         uint64               `json:"seq"`
	Route       domain.OverlayHandle `json:"route,omitempty"`
	StartMarker domain.OverlayHandle `json:"start_marker,omitempty"`
	EndMarker   domain.OverlayHandle `json:"end_marker,omitempty"`
}

// MapSession owns the overlays of one map. It holds at most one route and
// one start/end marker pair, all drawn by the same cycle. Only cycles with a
// higher sequence than the one on screen may replace them.
type MapSession struct {
	presenter ports.MapPresenter

	mu      sync.Mutex
	current Overlays
	shown   *Artifacts
	closed  bool
}

// NewMapSession creates an empty session drawing through presenter.
func NewMapSession(presenter ports.MapPresenter) *MapSession {
	return &MapSession{presenter: presenter}
}

// Overlays returns what is currently drawn.
func (s *MapSession) Overlays() Overlays {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Show replaces the drawn artifacts with those of cycle seq. It returns
// false without touching the map when a newer cycle is already shown or the
// session was closed.
func (s *MapSession) Show(ctx context.Context, seq uint64, a Artifacts) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq < s.current.Seq {
		return false, nil
	}

	var errs []error
	for _, h := range []domain.OverlayHandle{s.current.Route, s.current.StartMarker, s.current.EndMarker} {
		if h == "" {
			continue
		}
		if err := s.presenter.RemoveOverlay(ctx, h); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", h, err))
		}
	}
	s.current = Overlays{Seq: seq}
	s.shown = nil

	route, err := s.presenter.DrawPolyline(ctx, a.Path, a.Style)
	if err != nil {
		return false, errors.Join(append(errs, fmt.Errorf("draw route: %w", err))...)
	}
	s.current.Route = route

	start, err := s.presenter.DrawMarker(ctx, a.Start, "Start", true)
	if err != nil {
		return false, errors.Join(append(errs, fmt.Errorf("draw start marker: %w", err))...)
	}
	s.current.StartMarker = start

	end, err := s.presenter.DrawMarker(ctx, a.End, "End", false)
	if err != nil {
		return false, errors.Join(append(errs, fmt.Errorf("draw end marker: %w", err))...)
	}
	s.current.EndMarker = end

	s.shown = &a

	if err := s.presenter.FitView(ctx, a.Bounds); err != nil {
		errs = append(errs, fmt.Errorf("fit view: %w", err))
	}

	return true, errors.Join(errs...)
}

// Redraw puts the current artifacts on the map again, e.g. after the map
// widget was reloaded. It is a no-op when nothing is shown.
func (s *MapSession) Redraw(ctx context.Context) error {
	s.mu.Lock()
	shown, seq := s.shown, s.current.Seq
	s.mu.Unlock()
	if shown == nil {
		return nil
	}
	_, err := s.Show(ctx, seq, *shown)
	return err
}

// Close stops the session from drawing. Cycles still in flight complete
// without touching the map.
func (s *MapSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.shown = nil
}
