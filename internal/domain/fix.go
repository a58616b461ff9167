package domain

import "time"

// A single position reported by a location provider.
type Fix struct {
	Coordinates Coordinates
	// Horizontal accuracy in meters; zero when the provider does not report it.
	Accuracy  float64
	Timestamp time.Time
}
