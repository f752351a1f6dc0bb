package usecases_test

import (
	"testing"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to usecases.State
		want     bool
	}{
		{usecases.StateIdle, usecases.StateAwaitingStartGeocode, true},
		{usecases.StateIdle, usecases.StateFailed, false},
		{usecases.StateIdle, usecases.StateDone, false},
		{usecases.StateAwaitingStartGeocode, usecases.StateAwaitingEndGeocode, true},
		{usecases.StateAwaitingStartGeocode, usecases.StateAwaitingRoute, false},
		{usecases.StateAwaitingStartGeocode, usecases.StateFailed, true},
		{usecases.StateAwaitingEndGeocode, usecases.StateAwaitingRoute, true},
		{usecases.StateAwaitingEndGeocode, usecases.StateFailed, true},
		{usecases.StateAwaitingRoute, usecases.StateDone, true},
		{usecases.StateAwaitingRoute, usecases.StateFailed, true},
		{usecases.StateDone, usecases.StateFailed, false},
		{usecases.StateDone, usecases.StateIdle, false},
		{usecases.StateFailed, usecases.StateAwaitingStartGeocode, false},
	}
	for _, tt := range tests {
		if got := usecases.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestState_Terminal(t *testing.T) {
	if !usecases.StateDone.Terminal() || !usecases.StateFailed.Terminal() {
		t.Error("done and failed must be terminal")
	}
	if usecases.StateAwaitingRoute.Terminal() || usecases.StateIdle.Terminal() {
		t.Error("idle and awaiting states must not be terminal")
	}
}

func TestSummarize(t *testing.T) {
	r := domain.RouteResult{DistanceMeters: 12345, DurationSeconds: 900}

	hr := usecases.LocaleHR.Summarize(r)
	if hr.Distance != "12.35 km" || hr.Duration != "15 minuta" {
		t.Errorf("unexpected hr summary: %+v", hr)
	}
	en := usecases.LocaleEN.Summarize(r)
	if en.Text != "Distance: 12.35 km\nDuration: 15 minutes" {
		t.Errorf("unexpected en summary: %q", en.Text)
	}
}

func TestFormatDistance(t *testing.T) {
	tests := map[float64]string{
		0:      "0.00 km",
		5:      "0.01 km",
		999:    "1.00 km",
		12345:  "12.35 km",
		100000: "100.00 km",
	}
	for m, want := range tests {
		if got := usecases.FormatDistance(m); got != want {
			t.Errorf("FormatDistance(%v): expected %s, got %s", m, want, got)
		}
	}
}

func TestRoundMinutes(t *testing.T) {
	tests := map[float64]int{0: 0, 29: 0, 30: 1, 89: 1, 90: 2, 900: 15}
	for s, want := range tests {
		if got := usecases.RoundMinutes(s); got != want {
			t.Errorf("RoundMinutes(%v): expected %d, got %d", s, want, got)
		}
	}
}

func TestFailureMessage_UnknownLocaleFallsBack(t *testing.T) {
	got := usecases.Locale("de").FailureMessage(usecases.FailureRouteNotFound)
	if got != "Ruta nije pronađena." {
		t.Errorf("expected hr fallback, got %q", got)
	}
}
