// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max.
// If min exceeds the floating point, then the function returns the min.
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Clipped returns the clipped value and whether clipping changed it
func Clipped(value float64, interval r1.Interval) (float64, bool) {
	clipped := ClipInterval(value, interval)
	return clipped, clipped != value
}

// Contains returns whether value lies in the closed interval
func Contains(value float64, interval r1.Interval) bool {
	return value >= interval.Min && value <= interval.Max
}

// NormalizeAngle wraps an angle in radians to [-π, π]
func NormalizeAngle(th float64) float64 {
	return math.Remainder(th, 2*math.Pi)
}

// IsFinite returns whether none of the values are NaN or ±Inf
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
