package domain

import "time"

// RouteResult is a single driving route returned by the routing service.
// Geometry is still encoded; it is decoded only when the route is drawn.
type RouteResult struct {
	DistanceMeters  float64 `json:"distance_m"`
	DurationSeconds float64 `json:"duration_s"`
	Geometry        string  `json:"geometry"`
}

// DistanceKm returns the distance in kilometers.
func (r RouteResult) DistanceKm() float64 { return r.DistanceMeters / 1000 }

// DurationMinutes returns the duration in minutes.
func (r RouteResult) DurationMinutes() float64 { return r.DurationSeconds / 60 }

// Lookup is the persisted record of one finished planning cycle.
type Lookup struct {
	ID              string      `json:"id"`
	SessionID       string      `json:"session_id"`
	StartQuery      string      `json:"start_query"`
	EndQuery        string      `json:"end_query"`
	Start           *Coordinate `json:"start,omitempty"`
	End             *Coordinate `json:"end,omitempty"`
	State           string      `json:"state"`
	Failure         string      `json:"failure,omitempty"`
	Message         string      `json:"message"`
	DistanceMeters  float64     `json:"distance_m"`
	DurationSeconds float64     `json:"duration_s"`
	Geometry        string      `json:"geometry,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	CompletedAt     time.Time   `json:"completed_at"`
}
