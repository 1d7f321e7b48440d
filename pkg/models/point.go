package models

import (
	"fmt"
	"math"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var ErrInvalidCoordinates = fmt.Errorf("invalid coordinates")

// Validate rejects non-finite or out-of-range coordinates. (0,0) is a valid
// point, not a sentinel for "missing".
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("%w: non-finite lat=%v lng=%v", ErrInvalidCoordinates, p.Lat, p.Lng)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: lat=%v out of range", ErrInvalidCoordinates, p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: lng=%v out of range", ErrInvalidCoordinates, p.Lng)
	}
	return nil
}
