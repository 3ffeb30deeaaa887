// Package units provides shared constants and validation for angle units
package units

import (
	"math"
	"strings"
)

// Unit constants
const (
	Rad  = "rad"
	Deg  = "deg"
	Turn = "turn"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Rad, Deg, Turn}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// perRadian is the number of units in one radian.
func perRadian(unit string) float64 {
	switch unit {
	case Deg:
		return 180 / math.Pi
	case Turn:
		return 1 / (2 * math.Pi)
	default:
		return 1 // radians, and unknown units
	}
}

// ToRadians converts an angle in the given unit to radians.
func ToRadians(angle float64, unit string) float64 {
	return angle / perRadian(unit)
}

// FromRadians converts an angle in radians to the target unit.
func FromRadians(rad float64, unit string) float64 {
	return rad * perRadian(unit)
}
