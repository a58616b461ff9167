package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	latitudeKey  = "Latitude"
	longitudeKey = "Longitude"
)

// ErrParse is wrapped by every ParseError.
var ErrParse = errors.New("invalid coordinates")

// ParseError reports a coordinate string or mapping that could not be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse coordinates %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
// Ranges are not validated.
type Coordinates struct {
	lat float64
	lon float64
}

// Empty is the (0, 0) default.
var Empty = Coordinates{}

func NewCoordinates(latitude, longitude float64) Coordinates {
	return Coordinates{lat: latitude, lon: longitude}
}

func (c Coordinates) Latitude() float64  { return c.lat }
func (c Coordinates) Longitude() float64 { return c.lon }

// ParseCoordinates reads the "{lat}|{lon}" form produced by String.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return Coordinates{}, &ParseError{
			Input: s,
			Err:   fmt.Errorf("expected 2 segments separated by %q, got %d", "|", len(parts)),
		}
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Coordinates{}, &ParseError{Input: s, Err: fmt.Errorf("latitude: %w", err)}
	}

	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Coordinates{}, &ParseError{Input: s, Err: fmt.Errorf("longitude: %w", err)}
	}

	return NewCoordinates(lat, lon), nil
}

// CoordinatesFromMap reads the "Latitude"/"Longitude" mapping form.
//
// Both values must be float64, or both must be numeric strings.
// A mapping that mixes the two representations is rejected.
func CoordinatesFromMap(m map[string]any) (Coordinates, error) {
	if lat, lon, ok := floatsFromMap(m); ok {
		return NewCoordinates(lat, lon), nil
	}

	lat, lon, err := stringsFromMap(m)
	if err != nil {
		return Coordinates{}, &ParseError{Input: fmt.Sprint(m), Err: err}
	}

	return NewCoordinates(lat, lon), nil
}

func floatsFromMap(m map[string]any) (float64, float64, bool) {
	lat, ok := m[latitudeKey].(float64)
	if !ok {
		return 0, 0, false
	}
	lon, ok := m[longitudeKey].(float64)
	if !ok {
		return 0, 0, false
	}
	return lat, lon, true
}

func stringsFromMap(m map[string]any) (float64, float64, error) {
	latStr, ok := m[latitudeKey].(string)
	if !ok {
		return 0, 0, fmt.Errorf("%s must be a number or a numeric string, and match %s", latitudeKey, longitudeKey)
	}
	lonStr, ok := m[longitudeKey].(string)
	if !ok {
		return 0, 0, fmt.Errorf("%s must be a number or a numeric string, and match %s", longitudeKey, latitudeKey)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", latitudeKey, err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", longitudeKey, err)
	}

	return lat, lon, nil
}

// String renders "{lat}|{lon}" using the shortest representation that
// parses back to the same values.
func (c Coordinates) String() string {
	return formatDegrees(c.lat) + "|" + formatDegrees(c.lon)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Map returns the "Latitude"/"Longitude" mapping form.
func (c Coordinates) Map() map[string]float64 {
	return map[string]float64{latitudeKey: c.lat, longitudeKey: c.lon}
}

// Equal is exact component-wise float equality; NaN never equals itself.
func (c Coordinates) Equal(o Coordinates) bool {
	return c.lat == o.lat && c.lon == o.lon
}

// IsFinite reports whether neither component is NaN or infinite.
// ParseCoordinates accepts such values; JSON cannot encode them.
func (c Coordinates) IsFinite() bool {
	return !math.IsNaN(c.lat) && !math.IsInf(c.lat, 0) &&
		!math.IsNaN(c.lon) && !math.IsInf(c.lon, 0)
}

// Less reports whether both latitude and longitude are strictly smaller.
// This is a partial order: many pairs are unordered in both directions,
// so it must not drive a sort.
func (c Coordinates) Less(o Coordinates) bool {
	return c.lat < o.lat && c.lon < o.lon
}

func (c Coordinates) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Coordinates) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinates(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Bounding rectangle in decimal degrees.
type CoordinatesFrame struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}
