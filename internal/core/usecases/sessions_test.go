package usecases_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/routemap/internal/core/usecases"
)

func TestSessionRegistry_GetOpensOnce(t *testing.T) {
	f := &presenterFactory{}
	reg := usecases.NewSessionRegistry(f, &mockGeocoder{}, &mockRouter{}, nil, testConfig(usecases.LocaleHR))

	p1, err := reg.Get(context.Background(), "tab-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, _ := reg.Get(context.Background(), "tab-1")
	if p1 != p2 {
		t.Error("expected the same planner for the same session")
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 session, got %d", reg.Len())
	}
	if ops := f.presenters["tab-1"].Ops(); len(ops) != 2 {
		t.Errorf("expected initialize + tiles once, got %v", ops)
	}
}

func TestSessionRegistry_Attach(t *testing.T) {
	f := &presenterFactory{}
	reg := usecases.NewSessionRegistry(f, &mockGeocoder{}, &mockRouter{}, nil, testConfig(usecases.LocaleHR))

	release, err := reg.Attach(context.Background(), "tab-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ops := f.presenters["tab-1"].Ops(); len(ops) != 2 {
		t.Fatalf("new session must be opened once, got %v", ops)
	}
	release()
	release()

	release, err = reg.Attach(context.Background(), "tab-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer release()
	if ops := f.presenters["tab-1"].Ops(); len(ops) != 4 {
		t.Errorf("reattach must replay the initial view, got %v", ops)
	}
	if _, err := reg.Attach(context.Background(), ""); !errors.Is(err, usecases.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionRegistry_ReattachReplaysRoute(t *testing.T) {
	f := &presenterFactory{tabs: true}
	reg := usecases.NewSessionRegistry(f,
		&mockGeocoder{geocode: byCity},
		&mockRouter{route: straightRoute(60000, 3600)},
		nil, testConfig(usecases.LocaleHR))
	ctx := context.Background()

	release, _ := reg.Attach(ctx, "tab-1")
	p, _ := reg.Get(ctx, "tab-1")
	if out := p.Submit(ctx, grazAddr, leobenAddr); !out.Drawn {
		t.Fatalf("expected route to be drawn, got %+v", out)
	}
	release()

	// The browser reconnects: the same session replays view and route.
	release, _ = reg.Attach(ctx, "tab-1")
	defer release()
	if p2, _ := reg.Get(ctx, "tab-1"); p2 != p {
		t.Fatal("disconnect must not drop the session")
	}

	pres := f.presenters["tab-1"]
	ops := pres.Ops()
	replay := ops[len(ops)-9:]
	want := []string{"remove", "remove", "remove", "polyline blue", "marker Start", "marker End", "fit"}
	if !strings.HasPrefix(replay[0], "initialize") || !strings.HasPrefix(replay[1], "tiles") || !slices.Equal(replay[2:], want) {
		t.Errorf("expected view then route replay, got %v", ops)
	}
	if n := len(pres.Live()); n != 3 {
		t.Errorf("expected one route and two markers, got %d overlays", n)
	}
	if got := p.Session().Overlays().Seq; got != 1 {
		t.Errorf("replay must keep seq 1, got %d", got)
	}
}

func TestSessionRegistry_EmptyID(t *testing.T) {
	reg := usecases.NewSessionRegistry(&presenterFactory{}, &mockGeocoder{}, &mockRouter{}, nil, testConfig(usecases.LocaleHR))
	if _, err := reg.Get(context.Background(), ""); !errors.Is(err, usecases.ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionRegistry_Sweep(t *testing.T) {
	reg := usecases.NewSessionRegistry(&presenterFactory{}, &mockGeocoder{}, &mockRouter{}, nil, testConfig(usecases.LocaleHR))
	ctx := context.Background()
	_, _ = reg.Get(ctx, "a")
	_, _ = reg.Get(ctx, "b")

	if n := reg.Sweep(time.Hour); n != 0 {
		t.Errorf("fresh sessions must survive, swept %d", n)
	}
	time.Sleep(5 * time.Millisecond)
	if n := reg.Sweep(time.Millisecond); n != 2 {
		t.Errorf("expected 2 swept sessions, got %d", n)
	}
	if reg.Len() != 0 {
		t.Errorf("expected no sessions, got %d", reg.Len())
	}
}

func TestSessionRegistry_SweepKeepsAttached(t *testing.T) {
	reg := usecases.NewSessionRegistry(&presenterFactory{}, &mockGeocoder{}, &mockRouter{}, nil, testConfig(usecases.LocaleHR))
	ctx := context.Background()
	release, _ := reg.Attach(ctx, "live")
	_, _ = reg.Get(ctx, "idle")

	time.Sleep(5 * time.Millisecond)
	if n := reg.Sweep(time.Millisecond); n != 1 {
		t.Fatalf("expected only the idle session swept, got %d", n)
	}
	p, _ := reg.Get(ctx, "live")
	if !p.Attached() {
		t.Error("connected session must survive the sweep")
	}

	release()
	if n := reg.Sweep(time.Hour); n != 0 {
		t.Errorf("release counts as use, swept %d", n)
	}
	time.Sleep(5 * time.Millisecond)
	if n := reg.Sweep(time.Millisecond); n != 1 {
		t.Errorf("expected released session swept, got %d", n)
	}
}

func TestSessionRegistry_SweptTabKeepsOneRoute(t *testing.T) {
	f := &presenterFactory{tabs: true}
	reg := usecases.NewSessionRegistry(f,
		&mockGeocoder{geocode: byCity},
		&mockRouter{route: straightRoute(60000, 3600)},
		nil, testConfig(usecases.LocaleHR))
	ctx := context.Background()

	p, _ := reg.Get(ctx, "tab-1")
	if out := p.Submit(ctx, grazAddr, leobenAddr); !out.Drawn {
		t.Fatalf("expected route to be drawn, got %+v", out)
	}

	time.Sleep(5 * time.Millisecond)
	if n := reg.Sweep(time.Millisecond); n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}

	// The tab submits again and gets a fresh planner on the same map.
	p2, _ := reg.Get(ctx, "tab-1")
	if p2 == p {
		t.Fatal("expected a new planner after the sweep")
	}
	if out := p2.Submit(ctx, leobenAddr, grazAddr); !out.Drawn {
		t.Fatalf("expected route to be drawn, got %+v", out)
	}

	// A cycle finishing on the evicted planner must not draw.
	late := p.Submit(ctx, grazAddr, leobenAddr)
	if late.Drawn || !late.Stale {
		t.Errorf("evicted planner must discard its route, got drawn=%v stale=%v", late.Drawn, late.Stale)
	}

	live := f.presenters["tab-1"].Live()
	if len(live) != 3 {
		t.Fatalf("expected one route and two markers, got %d overlays", len(live))
	}
	for _, d := range live {
		if d.Op == "marker" && d.Popup == "Start" && d.At != leoben.Point() {
			t.Errorf("start marker must belong to the newest route, got %+v", d.At)
		}
	}
}
