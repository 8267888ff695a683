package utils

import (
	"math"
)

const EarthRadiusKM = 6371.0

// HaversineDistanceKm returns the great-circle distance between two
// coordinates in kilometers.
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// IsOnRouteCorridor reports whether a point lies within a detour corridor of
// the straight line between a trip's start and end. A point is accepted when
// routing through it adds no more than corridorKm to the direct distance:
//
//	deviation = dist(start,point) + dist(point,end) - dist(start,end)
//
// When start == end the deviation degenerates to 2*dist(start,point), which
// needs no special handling.
func IsOnRouteCorridor(startLat, startLng, endLat, endLng, pointLat, pointLng, corridorKm float64) bool {
	totalDist := HaversineDistanceKm(startLat, startLng, endLat, endLng)
	distToStart := HaversineDistanceKm(startLat, startLng, pointLat, pointLng)
	distToEnd := HaversineDistanceKm(pointLat, pointLng, endLat, endLng)

	deviation := (distToStart + distToEnd) - totalDist
	return deviation <= corridorKm
}

func IsWithinRadius(centerLat, centerLon, pointLat, pointLon, radiusKM float64) bool {
	return HaversineDistanceKm(centerLat, centerLon, pointLat, pointLon) <= radiusKM
}

func CalculateBearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	bearing = math.Mod(bearing+360, 360)

	return bearing
}

// EstimateDurationSeconds estimates travel time for a road distance at the
// given average speed.
func EstimateDurationSeconds(distanceMeters float64, averageSpeedKMH float64) int {
	if averageSpeedKMH <= 0 {
		averageSpeedKMH = 40 // default city speed
	}
	return int(math.Round(distanceMeters / (averageSpeedKMH * 1000 / 3600)))
}
