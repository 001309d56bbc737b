package domain

import "fmt"

// Coordinate represents a geographic position as delivered by the provider.
// It is an immutable value: equality and map keying work by field pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ID returns a diagnostic identifier for the coordinate.
// It is meant for logs and traces, not for uniqueness guarantees.
func (c Coordinate) ID() string {
	return fmt.Sprintf("%v-%v", c.Latitude, c.Longitude)
}

// String implements fmt.Stringer.
func (c Coordinate) String() string {
	return c.ID()
}
