// Package nominatim implements ports.Geocoder against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// Client implements ports.Geocoder.
type Client struct {
	http        *http.Client
	baseURL     string
	countryCode string
	userAgent   string
}

// New creates a Nominatim client limited to one country code (e.g. "at").
func New(httpClient *http.Client, baseURL, countryCode, userAgent string) *Client {
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: countryCode,
		userAgent:   userAgent,
	}
}

// place is one search candidate. Nominatim sends coordinates as strings.
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for query, or nil when there is none.
func (c *Client) Geocode(ctx context.Context, query string) (*domain.Coordinate, error) {
	defer metrics.ObserveUpstream("geocode", time.Now())

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("countrycodes", c.countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: geocode request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.GeocodeRequests.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: geocode status %d", domain.ErrTransport, resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		metrics.GeocodeRequests.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: geocode response: %w", domain.ErrDecode, err)
	}

	if len(places) == 0 {
		metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return nil, nil
	}

	coord, err := places[0].coordinate()
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("decode").Inc()
		return nil, err
	}

	metrics.GeocodeRequests.WithLabelValues("ok").Inc()
	return coord, nil
}

func (p place) coordinate() (*domain.Coordinate, error) {
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q: %w", domain.ErrDecode, p.Lon, err)
	}
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q: %w", domain.ErrDecode, p.Lat, err)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return nil, fmt.Errorf("%w: non-finite coordinate %s,%s", domain.ErrDecode, p.Lon, p.Lat)
	}
	return &domain.Coordinate{Lon: lon, Lat: lat}, nil
}
