// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Normalize maps value from interval onto [0, 1]. Values outside the
// interval are clipped. A degenerate interval maps every value to 1.
func Normalize(value float64, interval r1.Interval) float64 {
	width := interval.Max - interval.Min
	if width <= 0 {
		return 1
	}
	return (ClipInterval(value, interval) - interval.Min) / width
}

// InLeftOpen reports whether value lies in the left-open interval
// (interval.Min, interval.Max]
func InLeftOpen(value float64, interval r1.Interval) bool {
	return value > interval.Min && value <= interval.Max
}
