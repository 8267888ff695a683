package models

// GeoPoint is an address label plus a coordinate pair. Coordinates are stored
// in [lng, lat] order, matching GeoJSON and the mobile clients.
type GeoPoint struct {
	Address     string    `json:"address" bson:"address"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) HasCoordinates() bool {
	return len(p.Coordinates) == 2
}
