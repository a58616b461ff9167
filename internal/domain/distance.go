package domain

import "github.com/golang/geo/s2"

// EarthRadiusMeters is the mean earth radius used by the s2 library.
const EarthRadiusMeters = 6371010.0

// DistanceMeters returns the great-circle distance between a and b on a
// spherical earth.
func DistanceMeters(a, b Coordinates) float64 {
	from := s2.LatLngFromDegrees(a.lat, a.lon)
	to := s2.LatLngFromDegrees(b.lat, b.lon)
	return from.Distance(to).Radians() * EarthRadiusMeters
}
