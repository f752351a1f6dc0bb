package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// ErrInvalidSession is returned for an empty session id.
var ErrInvalidSession = errors.New("session id is required")

// SessionRegistry keeps one Planner per map session, created on first use.
type SessionRegistry struct {
	presenters ports.PresenterFactory
	geocoder   ports.Geocoder
	router     ports.Router
	recorder   ports.LookupRecorder
	cfg        PlannerConfig

	mu       sync.Mutex
	planners map[string]*Planner
}

// NewSessionRegistry creates an empty registry. recorder may be nil.
func NewSessionRegistry(
	presenters ports.PresenterFactory,
	geocoder ports.Geocoder,
	router ports.Router,
	recorder ports.LookupRecorder,
	cfg PlannerConfig,
) *SessionRegistry {
	return &SessionRegistry{
		presenters: presenters,
		geocoder:   geocoder,
		router:     router,
		recorder:   recorder,
		cfg:        cfg,
		planners:   make(map[string]*Planner),
	}
}

// Get returns the planner for id, opening a new map session if needed.
func (r *SessionRegistry) Get(ctx context.Context, id string) (*Planner, error) {
	p, _, _, err := r.get(ctx, id, false)
	return p, err
}

func (r *SessionRegistry) get(ctx context.Context, id string, attach bool) (*Planner, bool, func(), error) {
	if id == "" {
		return nil, false, nil, ErrInvalidSession
	}

	// Attaching under the lock keeps Sweep from evicting the planner
	// between lookup and attach.
	var release func()
	r.mu.Lock()
	p, ok := r.planners[id]
	if !ok {
		p = NewPlanner(id, r.geocoder, r.router, r.presenters.ForSession(id), r.recorder, r.cfg)
		r.planners[id] = p
		metrics.ActiveSessions.Set(float64(len(r.planners)))
	}
	if attach {
		release = p.attach()
	}
	r.mu.Unlock()

	if !ok {
		if err := p.Open(ctx); err != nil {
			slog.Warn("open map session", "session_id", id, "error", err)
		}
	}
	return p, !ok, release, nil
}

// Attach marks a map client as connected to session id and replays the
// initial view and current route to it. The session is not swept while at
// least one client is attached. The returned func detaches the client and
// may be called more than once.
func (r *SessionRegistry) Attach(ctx context.Context, id string) (func(), error) {
	p, created, release, err := r.get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !created {
		if err := p.Open(ctx); err != nil {
			slog.Warn("reopen map session", "session_id", id, "error", err)
		}
	}
	return release, nil
}

// Sweep closes sessions with no attached client that were unused for longer
// than idle and returns how many were removed. Cycles still running on a
// removed session finish without drawing.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, p := range r.planners {
		if p.Attached() || !p.LastUsed().Before(cutoff) {
			continue
		}
		p.session.Close()
		delete(r.planners, id)
		n++
	}
	if n > 0 {
		metrics.ActiveSessions.Set(float64(len(r.planners)))
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				slog.Info("swept idle map sessions", "count", n)
			}
		}
	}
}

// Len returns the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.planners)
}
