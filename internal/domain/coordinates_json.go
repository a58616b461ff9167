package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the mapping form {"Latitude": .., "Longitude": ..}.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// UnmarshalJSON accepts the mapping form with either numeric or
// numeric-string values, following CoordinatesFromMap.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return &ParseError{Input: string(data), Err: fmt.Errorf("decode json: %w", err)}
	}

	parsed, err := CoordinatesFromMap(m)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
