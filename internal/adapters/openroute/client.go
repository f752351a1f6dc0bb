// Package openroute implements ports.Router against the openrouteservice
// directions API.
package openroute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// Client implements ports.Router.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	profile string
}

// New creates a directions client for a profile such as "driving-car".
func New(httpClient *http.Client, baseURL, apiKey, profile string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		profile: profile,
	}
}

type directionsRequest struct {
	Coordinates  [][2]float64 `json:"coordinates"`
	Instructions bool         `json:"instructions"`
	Geometry     bool         `json:"geometry"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// Route requests a driving route from one coordinate to another.
func (c *Client) Route(ctx context.Context, from, to domain.Coordinate) (*domain.RouteResult, error) {
	defer metrics.ObserveUpstream("route", time.Now())

	body, err := json.Marshal(directionsRequest{
		Coordinates:  [][2]float64{from.Pair(), to.Pair()},
		Instructions: false,
		Geometry:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode directions request: %w", err)
	}

	url := c.baseURL + "/v2/directions/" + c.profile
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build directions request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RouteRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: directions request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		metrics.RouteRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: directions status %d: %s", domain.ErrTransport, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		metrics.RouteRequests.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: directions response: %w", domain.ErrDecode, err)
	}

	if len(dr.Routes) == 0 {
		metrics.RouteRequests.WithLabelValues("not_found").Inc()
		return nil, domain.ErrRouteNotFound
	}

	r := dr.Routes[0]
	if r.Summary.Distance < 0 || r.Summary.Duration < 0 {
		metrics.RouteRequests.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: negative summary %v m / %v s", domain.ErrDecode, r.Summary.Distance, r.Summary.Duration)
	}

	metrics.RouteRequests.WithLabelValues("ok").Inc()
	return &domain.RouteResult{
		DistanceMeters:  r.Summary.Distance,
		DurationSeconds: r.Summary.Duration,
		Geometry:        r.Geometry,
	}, nil
}
