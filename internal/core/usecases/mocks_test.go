package usecases_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
)

// --- Mock Geocoder ---

type mockGeocoder struct {
	mu      sync.Mutex
	calls   []string
	geocode func(ctx context.Context, query string) (*domain.Coordinate, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()
	if m.geocode != nil {
		return m.geocode(ctx, query)
	}
	return nil, nil
}

func (m *mockGeocoder) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// --- Mock Router ---

type mockRouter struct {
	mu    sync.Mutex
	count int
	route func(ctx context.Context, from, to domain.Coordinate) (*domain.RouteResult, error)
}

func (m *mockRouter) Route(ctx context.Context, from, to domain.Coordinate) (*domain.RouteResult, error) {
	m.mu.Lock()
	m.count++
	m.mu.Unlock()
	if m.route != nil {
		return m.route(ctx, from, to)
	}
	return nil, domain.ErrRouteNotFound
}

func (m *mockRouter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// --- Mock MapPresenter ---

type drawn struct {
	Op     string
	Points []domain.GeoPoint
	At     domain.GeoPoint
	Popup  string
	Open   bool
}

type mockPresenter struct {
	mu      sync.Mutex
	next    int
	live    map[domain.OverlayHandle]drawn
	ops     []string
	fitted  []domain.Bounds
	drawErr error
}

func newMockPresenter() *mockPresenter {
	return &mockPresenter{live: make(map[domain.OverlayHandle]drawn)}
}

func (m *mockPresenter) handle() domain.OverlayHandle {
	m.next++
	return domain.OverlayHandle(fmt.Sprintf("h%d", m.next))
}

func (m *mockPresenter) Initialize(ctx context.Context, center domain.GeoPoint, zoom int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, fmt.Sprintf("initialize %.4f,%.4f z%d", center.Lat, center.Lon, zoom))
	clear(m.live)
	return nil
}

func (m *mockPresenter) AddTileBackground(ctx context.Context, urlTemplate, attribution string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "tiles "+urlTemplate)
	return nil
}

func (m *mockPresenter) DrawPolyline(ctx context.Context, points []domain.GeoPoint, style domain.PathStyle) (domain.OverlayHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drawErr != nil {
		return "", m.drawErr
	}
	h := m.handle()
	m.live[h] = drawn{Op: "polyline", Points: points}
	m.ops = append(m.ops, "polyline "+style.Color)
	return h, nil
}

func (m *mockPresenter) DrawMarker(ctx context.Context, at domain.GeoPoint, popup string, openPopup bool) (domain.OverlayHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.handle()
	m.live[h] = drawn{Op: "marker", At: at, Popup: popup, Open: openPopup}
	m.ops = append(m.ops, "marker "+popup)
	return h, nil
}

func (m *mockPresenter) RemoveOverlay(ctx context.Context, h domain.OverlayHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, h)
	m.ops = append(m.ops, "remove")
	return nil
}

func (m *mockPresenter) FitView(ctx context.Context, b domain.Bounds) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fitted = append(m.fitted, b)
	m.ops = append(m.ops, "fit")
	return nil
}

func (m *mockPresenter) Live() map[domain.OverlayHandle]drawn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.OverlayHandle]drawn, len(m.live))
	for k, v := range m.live {
		out[k] = v
	}
	return out
}

func (m *mockPresenter) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// presenterFactory hands out one mockPresenter per session. With tabs set,
// a session id keeps its presenter across planners, like a browser tab that
// stays open while the server forgets the session.
type presenterFactory struct {
	mu         sync.Mutex
	tabs       bool
	presenters map[string]*mockPresenter
}

func (f *presenterFactory) ForSession(id string) ports.MapPresenter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.presenters == nil {
		f.presenters = make(map[string]*mockPresenter)
	}
	if p, ok := f.presenters[id]; ok && f.tabs {
		return p
	}
	p := newMockPresenter()
	f.presenters[id] = p
	return p
}

// --- Mock LookupRecorder ---

type mockRecorder struct {
	mu      sync.Mutex
	lookups []domain.Lookup
	err     error
}

func (m *mockRecorder) Record(ctx context.Context, l *domain.Lookup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, *l)
	return m.err
}

func (m *mockRecorder) Lookups() []domain.Lookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Lookup(nil), m.lookups...)
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("cache miss: %s", key)
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
