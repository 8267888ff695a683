package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GoogleProvider routes via the Google Distance Matrix and Directions APIs.
type GoogleProvider struct {
	client *maps.Client
}

func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleProvider{client: client}, nil
}

func (g *GoogleProvider) Name() string { return "google" }

func (g *GoogleProvider) GetRouteInfo(ctx context.Context, origin, dest Coordinate) (*RouteInfo, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		Destinations: []string{fmt.Sprintf("%f,%f", dest.Lat, dest.Lng)},
		Mode:         maps.TravelModeDriving,
	}

	resp, err := g.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("distance matrix returned no elements")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return nil, fmt.Errorf("distance matrix element status: %s", el.Status)
	}

	// Prefer the traffic-aware duration when the API returns one.
	duration := el.Duration
	if el.DurationInTraffic > 0 {
		duration = el.DurationInTraffic
	}

	return &RouteInfo{
		DistanceMeters:  el.Distance.Meters,
		DistanceLabel:   el.Distance.HumanReadable,
		DurationSeconds: int(duration.Seconds()),
		DurationLabel:   FormatDuration(int(duration.Seconds())),
	}, nil
}

func (g *GoogleProvider) GetEncodedPath(ctx context.Context, origin, dest Coordinate) (string, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", dest.Lat, dest.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return "", fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 {
		return "", fmt.Errorf("directions returned no routes")
	}

	return routes[0].OverviewPolyline.Points, nil
}
