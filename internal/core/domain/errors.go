package domain

import "errors"

var (
	// ErrAddressNotFound is returned when the geocoder has no match.
	ErrAddressNotFound = errors.New("address not found")
	// ErrRouteNotFound is returned when the routing service has no candidate.
	ErrRouteNotFound = errors.New("route not found")
	// ErrTransport covers network and HTTP-level failures.
	ErrTransport = errors.New("transport failure")
	// ErrDecode covers malformed response bodies and polylines.
	ErrDecode = errors.New("decode failure")
	// ErrLookupNotFound is returned by history queries for unknown ids.
	ErrLookupNotFound = errors.New("lookup not found")
)
