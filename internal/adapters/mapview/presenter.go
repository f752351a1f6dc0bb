// Package mapview implements ports.MapPresenter by turning every call into a
// domain.MapCommand and handing it to a Sink. The browser page replays the
// commands against Leaflet.
package mapview

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
)

// Sink delivers map commands for one session.
type Sink interface {
	Send(ctx context.Context, cmd domain.MapCommand) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, cmd domain.MapCommand) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, cmd domain.MapCommand) error { return f(ctx, cmd) }

// Presenter implements ports.MapPresenter on top of a Sink.
type Presenter struct {
	sink Sink
}

var _ ports.MapPresenter = (*Presenter)(nil)

// New creates a presenter writing to sink.
func New(sink Sink) *Presenter {
	return &Presenter{sink: sink}
}

func (p *Presenter) send(ctx context.Context, cmd domain.MapCommand) error {
	if err := p.sink.Send(ctx, cmd); err != nil {
		return fmt.Errorf("map %s: %w", cmd.Op, err)
	}
	return nil
}

func (p *Presenter) Initialize(ctx context.Context, center domain.GeoPoint, zoom int) error {
	return p.send(ctx, domain.MapCommand{Op: domain.OpInitialize, Center: &center, Zoom: zoom})
}

func (p *Presenter) AddTileBackground(ctx context.Context, urlTemplate, attribution string) error {
	return p.send(ctx, domain.MapCommand{Op: domain.OpTileLayer, URLTemplate: urlTemplate, Attribution: attribution})
}

func (p *Presenter) DrawPolyline(ctx context.Context, points []domain.GeoPoint, style domain.PathStyle) (domain.OverlayHandle, error) {
	h := newHandle("route")
	if err := p.send(ctx, domain.MapCommand{Op: domain.OpPolyline, Handle: h, Points: points, Style: &style}); err != nil {
		return "", err
	}
	return h, nil
}

func (p *Presenter) DrawMarker(ctx context.Context, at domain.GeoPoint, popup string, openPopup bool) (domain.OverlayHandle, error) {
	h := newHandle("marker")
	cmd := domain.MapCommand{Op: domain.OpMarker, Handle: h, Center: &at, Popup: popup, OpenPopup: openPopup}
	if err := p.send(ctx, cmd); err != nil {
		return "", err
	}
	return h, nil
}

func (p *Presenter) RemoveOverlay(ctx context.Context, h domain.OverlayHandle) error {
	return p.send(ctx, domain.MapCommand{Op: domain.OpRemove, Handle: h})
}

func (p *Presenter) FitView(ctx context.Context, b domain.Bounds) error {
	return p.send(ctx, domain.MapCommand{Op: domain.OpFitBounds, Bounds: &b})
}

func newHandle(kind string) domain.OverlayHandle {
	return domain.OverlayHandle(kind + "-" + uuid.NewString())
}

// Factory builds one presenter per session from a sink constructor.
type Factory struct {
	NewSink func(sessionID string) Sink
}

var _ ports.PresenterFactory = Factory{}

// ForSession implements ports.PresenterFactory.
func (f Factory) ForSession(sessionID string) ports.MapPresenter {
	return New(f.NewSink(sessionID))
}
