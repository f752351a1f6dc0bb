package openroute_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routemap/internal/adapters/openroute"
	"github.com/samirrijal/routemap/internal/core/domain"
)

var (
	graz   = domain.Coordinate{Lon: 15.4382, Lat: 47.0709}
	leoben = domain.Coordinate{Lon: 15.0910, Lat: 47.3817}
)

func newClient(t *testing.T, h http.HandlerFunc) *openroute.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return openroute.New(&http.Client{Timeout: 2 * time.Second}, srv.URL, "test-key", "driving-car")
}

func TestRoute_Success(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Coordinates  [][2]float64 `json:"coordinates"`
			Instructions *bool        `json:"instructions"`
			Geometry     *bool        `json:"geometry"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][2]float64{{15.4382, 47.0709}, {15.0910, 47.3817}}, body.Coordinates)
		require.NotNil(t, body.Instructions)
		require.NotNil(t, body.Geometry)
		assert.False(t, *body.Instructions)
		assert.True(t, *body.Geometry)

		_, _ = w.Write([]byte(`{"routes":[{"summary":{"distance":12345,"duration":900},"geometry":"_p~iF~ps|U"}]}`))
	})

	route, err := c.Route(context.Background(), graz, leoben)
	require.NoError(t, err)
	assert.Equal(t, 12345.0, route.DistanceMeters)
	assert.Equal(t, 900.0, route.DurationSeconds)
	assert.Equal(t, "_p~iF~ps|U", route.Geometry)
	assert.InDelta(t, 12.345, route.DistanceKm(), 1e-9)
	assert.InDelta(t, 15.0, route.DurationMinutes(), 1e-9)
}

func TestRoute_NoRoutes(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes":[]}`))
	})

	_, err := c.Route(context.Background(), graz, leoben)
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
	assert.NotErrorIs(t, err, domain.ErrTransport)
}

func TestRoute_MissingRoutesField(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metadata":{}}`))
	})

	_, err := c.Route(context.Background(), graz, leoben)
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestRoute_HTTPError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":2010,"message":"Could not find routable point"}}`, http.StatusNotFound)
	})

	_, err := c.Route(context.Background(), graz, leoben)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestRoute_MalformedBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.Route(context.Background(), graz, leoben)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestRoute_ContextCancelled(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Route(ctx, graz, leoben)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
