package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

// Public OSRM servers tried in order. Multiple servers for reliability.
var DefaultOSRMServers = []string{
	"https://router.project-osrm.org",
	"https://routing.openstreetmap.de/routed-car",
}

// OSRMProvider routes via the OSRM HTTP API, failing over across servers.
type OSRMProvider struct {
	servers []string
	client  *http.Client
}

func NewOSRMProvider(servers []string, timeout time.Duration) *OSRMProvider {
	if len(servers) == 0 {
		servers = DefaultOSRMServers
	}
	return &OSRMProvider{
		servers: servers,
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *OSRMProvider) Name() string { return "osrm" }

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

func (o *OSRMProvider) GetRouteInfo(ctx context.Context, origin, dest Coordinate) (*RouteInfo, error) {
	resp, err := o.route(ctx, origin, dest, "overview=false")
	if err != nil {
		return nil, err
	}

	distance := int(math.Round(resp.Routes[0].Distance))
	duration := int(math.Round(resp.Routes[0].Duration))

	return &RouteInfo{
		DistanceMeters:  distance,
		DistanceLabel:   fmt.Sprintf("%.1f km", float64(distance)/1000),
		DurationSeconds: duration,
		DurationLabel:   FormatDuration(duration),
	}, nil
}

func (o *OSRMProvider) GetEncodedPath(ctx context.Context, origin, dest Coordinate) (string, error) {
	resp, err := o.route(ctx, origin, dest, "overview=full&geometries=polyline")
	if err != nil {
		return "", err
	}
	return resp.Routes[0].Geometry, nil
}

func (o *OSRMProvider) route(ctx context.Context, origin, dest Coordinate, query string) (*osrmResponse, error) {
	var lastErr error
	for _, server := range o.servers {
		url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?%s",
			server, origin.Lng, origin.Lat, dest.Lng, dest.Lat, query)

		resp, err := o.fetch(ctx, url)
		if err != nil {
			lastErr = fmt.Errorf("osrm %s: %w", server, err)
			continue
		}
		if resp.Code != "Ok" || len(resp.Routes) == 0 {
			lastErr = fmt.Errorf("osrm %s: code %q with %d routes", server, resp.Code, len(resp.Routes))
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("all OSRM servers failed: %w", lastErr)
}

func (o *OSRMProvider) fetch(ctx context.Context, url string) (*osrmResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
