// Package units provides weight rounding against a user's smallest loadable
// increment. Every weight written to a plan goes through RoundDown.
package units

import (
	"errors"
	"math"
)

// ErrInvalidIncrement is returned when the increment is zero or negative.
var ErrInvalidIncrement = errors.New("smallest_increment must be positive")

// RoundDown rounds target down to the nearest multiple of increment.
// A target of 37.5 with a 2.5 increment stays 37.5; 38.0 becomes 37.5.
func RoundDown(target, increment float64) (float64, error) {
	if increment <= 0 {
		return 0, ErrInvalidIncrement
	}
	return math.Floor(target/increment) * increment, nil
}
