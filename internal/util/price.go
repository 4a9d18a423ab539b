// Package util provides common utility functions for price calculations.
package util

import "math"

// RoundToTick rounds x to the nearest tick increment.
// For example, with tick=0.01, 1.2345 becomes 1.23 or 1.24 depending on rounding.
func RoundToTick(x, tick float64) float64 {
	if tick <= 0 {
		return x
	}
	return math.Round(x/tick) * tick
}

// Round2 rounds x to two decimal places, the precision used for dollar
// amounts at emission time.
func Round2(x float64) float64 {
	return RoundToTick(x, 0.01)
}

// Round4 rounds x to four decimal places, the precision used for scores,
// deltas and implied volatility at emission time.
func Round4(x float64) float64 {
	return RoundToTick(x, 0.0001)
}
