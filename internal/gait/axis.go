package gait

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SelectAxis picks the axis with the largest sample standard deviation,
// ignoring missing values. Ties resolve as x only when x is strictly
// largest, then y only when y beats z, otherwise z.
func SelectAxis(x, y, z []float64) (Axis, []float64) {
	sx, sy, sz := StdDev(x), StdDev(y), StdDev(z)
	switch {
	case sx > sy && sx > sz:
		return AxisX, x
	case sy > sz:
		return AxisY, y
	default:
		return AxisZ, z
	}
}

// StdDev is the n-1 standard deviation over the finite values of v.
// It is NaN when fewer than two values are finite.
func StdDev(v []float64) float64 {
	finite := make([]float64, 0, len(v))
	for _, f := range v {
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			finite = append(finite, f)
		}
	}
	if len(finite) < 2 {
		return math.NaN()
	}
	return stat.StdDev(finite, nil)
}
