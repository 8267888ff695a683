package maps

import (
	"context"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

// StraightLineProvider is the last-resort strategy: haversine distance scaled
// by a road factor, duration from an assumed average speed, and a two-point
// polyline. It cannot fail, so trip publishing never blocks on routing.
type StraightLineProvider struct {
	RoadFactor      float64 // straight-line to road-distance multiplier
	AverageSpeedKMH float64
}

func NewStraightLineProvider(roadFactor, averageSpeedKMH float64) *StraightLineProvider {
	if roadFactor <= 0 {
		roadFactor = 1.35
	}
	if averageSpeedKMH <= 0 {
		averageSpeedKMH = 40
	}
	return &StraightLineProvider{RoadFactor: roadFactor, AverageSpeedKMH: averageSpeedKMH}
}

func (s *StraightLineProvider) Name() string { return "straight-line" }

func (s *StraightLineProvider) GetRouteInfo(_ context.Context, origin, dest Coordinate) (*RouteInfo, error) {
	distM := haversineMeters(origin, dest)
	roadDistM := int(math.Round(distM * s.RoadFactor))
	durationSec := int(math.Round(float64(roadDistM) / (s.AverageSpeedKMH * 1000 / 3600)))

	return &RouteInfo{
		DistanceMeters:  roadDistM,
		DistanceLabel:   fmt.Sprintf("~%.1f km", float64(roadDistM)/1000),
		DurationSeconds: durationSec,
		DurationLabel:   "~" + FormatDuration(durationSec),
	}, nil
}

func (s *StraightLineProvider) GetEncodedPath(_ context.Context, origin, dest Coordinate) (string, error) {
	coords := [][]float64{
		{origin.Lat, origin.Lng},
		{dest.Lat, dest.Lng},
	}
	return string(polyline.EncodeCoords(coords)), nil
}

func haversineMeters(a, b Coordinate) float64 {
	const earthRadiusM = 6371000.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FormatDuration renders seconds the way the clients display it.
func FormatDuration(seconds int) string {
	totalMin := int(math.Round(float64(seconds) / 60))
	if totalMin >= 60 {
		h := totalMin / 60
		m := totalMin % 60
		if m > 0 {
			return fmt.Sprintf("%d hr %d min", h, m)
		}
		return fmt.Sprintf("%d hr", h)
	}
	return fmt.Sprintf("%d min", totalMin)
}
