package usecases

import (
	"fmt"
	"math"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// FailureKind classifies why a cycle ended in StateFailed.
type FailureKind string

const (
	FailureNone            FailureKind = ""
	FailureAddressNotFound FailureKind = "address_not_found"
	FailureGeocode         FailureKind = "geocode_error"
	FailureRouteNotFound   FailureKind = "route_not_found"
	FailureRouting         FailureKind = "routing_error"
)

// Locale selects the language of user-visible messages.
type Locale string

const (
	LocaleHR Locale = "hr"
	LocaleEN Locale = "en"
)

type catalog struct {
	failures      map[FailureKind]string
	distanceLabel string
	durationLabel string
	minutes       string
}

var catalogs = map[Locale]catalog{
	LocaleHR: {
		failures: map[FailureKind]string{
			FailureAddressNotFound: "Nije moguće pronaći jednu od adresa.",
			FailureGeocode:         "Greška kod traženja adrese.",
			FailureRouteNotFound:   "Ruta nije pronađena.",
			FailureRouting:         "Greška u mapiranju rute.",
		},
		distanceLabel: "Dužina",
		durationLabel: "Vrijeme",
		minutes:       "minuta",
	},
	LocaleEN: {
		failures: map[FailureKind]string{
			FailureAddressNotFound: "address not found",
			FailureGeocode:         "address lookup error",
			FailureRouteNotFound:   "route not found",
			FailureRouting:         "routing error",
		},
		distanceLabel: "Distance",
		durationLabel: "Duration",
		minutes:       "minutes",
	},
}

func (l Locale) catalog() catalog {
	if c, ok := catalogs[l]; ok {
		return c
	}
	return catalogs[LocaleHR]
}

// FailureMessage returns the short text shown in place of the results.
func (l Locale) FailureMessage(kind FailureKind) string {
	return l.catalog().failures[kind]
}

// Summary is the textual result of a successful cycle.
type Summary struct {
	Distance string `json:"distance"` // "12.35 km"
	Duration string `json:"duration"` // "15 minuta"
	Text     string `json:"text"`     // both, labelled, one per line
}

// Summarize formats distance with two decimals in km and duration in whole minutes.
func (l Locale) Summarize(r domain.RouteResult) Summary {
	c := l.catalog()
	s := Summary{
		Distance: FormatDistance(r.DistanceMeters),
		Duration: fmt.Sprintf("%d %s", RoundMinutes(r.DurationSeconds), c.minutes),
	}
	s.Text = fmt.Sprintf("%s: %s\n%s: %s", c.distanceLabel, s.Distance, c.durationLabel, s.Duration)
	return s
}

// FormatDistance renders meters as kilometers with two decimals, rounding
// halves up (12345 m → "12.35 km").
func FormatDistance(meters float64) string {
	hundredths := math.Round(meters / 10)
	return fmt.Sprintf("%.2f km", hundredths/100)
}

// RoundMinutes converts seconds to minutes, rounding halves up.
func RoundMinutes(seconds float64) int {
	return int(math.Round(seconds / 60))
}
