package maps

import "context"

// RouteInfo is the route summary the trip lifecycle needs: machine values for
// matching and reward accounting, labels for display.
type RouteInfo struct {
	DistanceMeters  int    `json:"distance_meters"`
	DistanceLabel   string `json:"distance_label"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationLabel   string `json:"duration_label"`
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteProvider resolves routing between two coordinates. Implementations are
// expected to be interchangeable strategies behind the Chain; trip creation
// only ever sees the chain.
type RouteProvider interface {
	Name() string
	GetRouteInfo(ctx context.Context, origin, dest Coordinate) (*RouteInfo, error)
	GetEncodedPath(ctx context.Context, origin, dest Coordinate) (string, error)
}
