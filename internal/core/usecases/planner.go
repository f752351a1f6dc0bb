package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/geospatial"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
	"github.com/samirrijal/routemap/internal/pkg/polyline"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
)

// MapView is the initial view and route style of every map session.
type MapView struct {
	Center      domain.GeoPoint
	Zoom        int
	TileURL     string
	Attribution string
	RouteStyle  domain.PathStyle
}

// PlannerConfig holds the settings shared by all planners.
type PlannerConfig struct {
	Region  string // appended to every address, e.g. "Steiermark"
	Country string // e.g. "Austria"
	Timeout time.Duration
	Locale  Locale
	View    MapView
}

// Outcome is the result of one Submit, ready to be shown to the user.
type Outcome struct {
	CycleID     string             `json:"cycle_id"`
	Seq         uint64             `json:"seq"`
	State       State              `json:"state"`
	Failure     FailureKind        `json:"failure,omitempty"`
	Message     string             `json:"message"`
	Summary     *Summary           `json:"summary,omitempty"`
	DistanceKm  float64            `json:"distance_km,omitempty"`
	DurationMin int                `json:"duration_min,omitempty"`
	StraightKm  float64            `json:"straight_km,omitempty"`
	Start       *domain.Coordinate `json:"start,omitempty"`
	End         *domain.Coordinate `json:"end,omitempty"`
	Drawn       bool               `json:"drawn"`
	Stale       bool               `json:"stale"`
	History     []State            `json:"history"`
}

// Planner turns a pair of addresses into a route drawn on one map session.
// Submissions may overlap; each gets an increasing sequence number and
// only the newest finished route stays on the map.
type Planner struct {
	sessionID string
	geocoder  ports.Geocoder
	router    ports.Router
	presenter ports.MapPresenter
	session   *MapSession
	recorder  ports.LookupRecorder
	cfg       PlannerConfig
	logger    *slog.Logger

	seq      atomic.Uint64
	lastUsed atomic.Int64
	sockets  atomic.Int32
}

// NewPlanner creates a planner for one map session. recorder may be nil.
func NewPlanner(
	sessionID string,
	geocoder ports.Geocoder,
	router ports.Router,
	presenter ports.MapPresenter,
	recorder ports.LookupRecorder,
	cfg PlannerConfig,
) *Planner {
	p := &Planner{
		sessionID: sessionID,
		geocoder:  geocoder,
		router:    router,
		presenter: presenter,
		session:   NewMapSession(presenter),
		recorder:  recorder,
		cfg:       cfg,
		logger:    slog.Default().With("session_id", sessionID),
	}
	p.touch()
	return p
}

// SessionID returns the map session this planner draws on.
func (p *Planner) SessionID() string { return p.sessionID }

// Session exposes the map session state.
func (p *Planner) Session() *MapSession { return p.session }

// LastUsed returns when the planner was last opened, submitted to or
// released by a map client.
func (p *Planner) LastUsed() time.Time { return time.Unix(0, p.lastUsed.Load()) }

// Attached reports whether a map client is currently connected.
func (p *Planner) Attached() bool { return p.sockets.Load() > 0 }

func (p *Planner) touch() { p.lastUsed.Store(time.Now().UnixNano()) }

func (p *Planner) attach() func() {
	p.sockets.Add(1)
	p.touch()
	var once sync.Once
	return func() {
		once.Do(func() {
			p.touch()
			p.sockets.Add(-1)
		})
	}
}

// Open centers the map, adds the tile background and redraws the current
// route, if any.
func (p *Planner) Open(ctx context.Context) error {
	p.touch()
	v := p.cfg.View
	if err := p.presenter.Initialize(ctx, v.Center, v.Zoom); err != nil {
		return fmt.Errorf("initialize map: %w", err)
	}
	if err := p.presenter.AddTileBackground(ctx, v.TileURL, v.Attribution); err != nil {
		return fmt.Errorf("add tile layer: %w", err)
	}
	return p.session.Redraw(ctx)
}

// Submit runs one planning cycle. It never returns an error: every failure
// ends the cycle in StateFailed with a localized message.
func (p *Planner) Submit(ctx context.Context, start, end domain.Address) *Outcome {
	p.touch()
	cycle := newCycle(uuid.NewString(), p.seq.Add(1))
	log := p.logger.With("cycle_id", cycle.ID, "seq", cycle.Seq)

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	ctx, span := telemetry.Tracer().Start(ctx, "planner.cycle")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", p.sessionID),
		attribute.String("cycle.id", cycle.ID),
		attribute.Int64("cycle.seq", int64(cycle.Seq)),
	)

	lookup := &domain.Lookup{
		ID:         cycle.ID,
		SessionID:  p.sessionID,
		StartQuery: start.Format(p.cfg.Region, p.cfg.Country),
		EndQuery:   end.Format(p.cfg.Region, p.cfg.Country),
		CreatedAt:  time.Now().UTC(),
	}
	log.Debug("addresses formatted", "start", lookup.StartQuery, "end", lookup.EndQuery)

	out := p.run(ctx, log, cycle, lookup)

	out.CycleID = cycle.ID
	out.Seq = cycle.Seq
	out.State = cycle.State()
	out.History = cycle.History()
	if out.Failure != FailureNone {
		out.Message = p.cfg.Locale.FailureMessage(out.Failure)
		span.SetStatus(codes.Error, string(out.Failure))
	}

	metrics.CyclesTotal.WithLabelValues(string(out.State), string(out.Failure)).Inc()
	p.record(ctx, log, lookup, out)
	return out
}

func (p *Planner) run(ctx context.Context, log *slog.Logger, cycle *Cycle, lookup *domain.Lookup) *Outcome {
	out := &Outcome{}
	fail := func(kind FailureKind, err error) *Outcome {
		if advErr := cycle.advance(StateFailed); advErr != nil {
			log.Error("cycle state", "error", advErr)
		}
		out.Failure = kind
		log.Warn("cycle failed", "failure", kind, "error", err)
		return out
	}

	// Both lookups are always attempted; routing waits for both.
	if err := cycle.advance(StateAwaitingStartGeocode); err != nil {
		return fail(FailureRouting, err)
	}
	var g errgroup.Group
	var startCoord, endCoord *domain.Coordinate
	g.Go(func() error {
		c, err := p.geocoder.Geocode(ctx, lookup.StartQuery)
		if err != nil {
			return fmt.Errorf("geocode start: %w", err)
		}
		startCoord = c
		return nil
	})
	if err := cycle.advance(StateAwaitingEndGeocode); err != nil {
		_ = g.Wait()
		return fail(FailureRouting, err)
	}
	g.Go(func() error {
		c, err := p.geocoder.Geocode(ctx, lookup.EndQuery)
		if err != nil {
			return fmt.Errorf("geocode end: %w", err)
		}
		endCoord = c
		return nil
	})
	err := g.Wait()

	lookup.Start, lookup.End = startCoord, endCoord
	out.Start, out.End = startCoord, endCoord
	log.Debug("addresses geocoded", "start", startCoord, "end", endCoord)

	if err != nil {
		return fail(FailureGeocode, err)
	}
	if startCoord == nil || endCoord == nil {
		return fail(FailureAddressNotFound, domain.ErrAddressNotFound)
	}

	if err := cycle.advance(StateAwaitingRoute); err != nil {
		return fail(FailureRouting, err)
	}
	route, err := p.router.Route(ctx, *startCoord, *endCoord)
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			return fail(FailureRouteNotFound, err)
		}
		return fail(FailureRouting, err)
	}
	if err := cycle.advance(StateDone); err != nil {
		return fail(FailureRouting, err)
	}

	lookup.DistanceMeters = route.DistanceMeters
	lookup.DurationSeconds = route.DurationSeconds
	lookup.Geometry = route.Geometry

	summary := p.cfg.Locale.Summarize(*route)
	out.Summary = &summary
	out.Message = summary.Text
	out.DistanceKm = route.DistanceKm()
	out.DurationMin = RoundMinutes(route.DurationSeconds)
	out.StraightKm = geospatial.Between(*startCoord, *endCoord) / 1000

	// The textual result stands even if the path cannot be drawn.
	out.Drawn, out.Stale = p.draw(ctx, log, cycle.Seq, route.Geometry, *startCoord, *endCoord)
	return out
}

// draw decodes the geometry and hands it to the map session. Failures are
// logged only.
func (p *Planner) draw(ctx context.Context, log *slog.Logger, seq uint64, geometry string, start, end domain.Coordinate) (drawn, stale bool) {
	path, err := polyline.Decode(geometry)
	if err != nil {
		metrics.PathDecodeErrors.Inc()
		log.Warn("could not decode route geometry", "error", err)
		return false, false
	}
	bounds, ok := geospatial.PathBounds(path)
	if !ok {
		log.Warn("route geometry is empty, nothing to draw")
		return false, false
	}

	drawn, err = p.session.Show(ctx, seq, Artifacts{
		Path:   path,
		Start:  start.Point(),
		End:    end.Point(),
		Bounds: bounds,
		Style:  p.cfg.View.RouteStyle,
	})
	if err != nil {
		log.Warn("could not draw route", "error", err)
	}
	if !drawn && err == nil {
		metrics.StaleCompletions.Inc()
		log.Info("discarding stale route, a newer cycle is already drawn")
		return false, true
	}
	return drawn, false
}

func (p *Planner) record(ctx context.Context, log *slog.Logger, lookup *domain.Lookup, out *Outcome) {
	if p.recorder == nil {
		return
	}
	lookup.State = string(out.State)
	lookup.Failure = string(out.Failure)
	lookup.Message = out.Message
	lookup.CompletedAt = time.Now().UTC()

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.recorder.Record(rctx, lookup); err != nil {
		log.Warn("record lookup", "error", err)
	}
}
