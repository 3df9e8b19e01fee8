package gait

import (
	"errors"
	"fmt"
	"math"

	matrix "github.com/skelterjohn/go.matrix"
)

var (
	ErrSignalTooShort = errors.New("signal too short to filter")
	ErrMissingSamples = errors.New("signal contains missing samples")
)

// FiltFilt applies the filter forward and then backward so the output has
// no phase shift. The signal is padded at both ends by odd reflection and
// the filter state starts at its steady-state response to the edge value.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 || a[0] == 0 {
		return nil, errors.New("invalid filter coefficients")
	}
	padlen := 3 * max(len(a), len(b))
	if len(x) <= padlen {
		return nil, fmt.Errorf("%w: need more than %d samples, got %d", ErrSignalTooShort, padlen, len(x))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: sample %d", ErrMissingSamples, i)
		}
	}

	b, a = normalize(b, a)
	zi, err := steadyState(b, a)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, padlen)
	y := lfilter(b, a, ext, scaled(zi, ext[0]))
	reverse(y)
	y = lfilter(b, a, y, scaled(zi, y[0]))
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[padlen:padlen+len(x)])
	return out, nil
}

// normalize pads b and a to a common length and divides by a[0].
func normalize(b, a []float64) ([]float64, []float64) {
	n := max(len(a), len(b))
	nb := make([]float64, n)
	na := make([]float64, n)
	for i, v := range b {
		nb[i] = v / a[0]
	}
	for i, v := range a {
		na[i] = v / a[0]
	}
	return nb, na
}

// steadyState solves (I - Cᵀ) zi = b[1:] - a[1:]·b[0], where C is the
// companion matrix of a.
func steadyState(b, a []float64) ([]float64, error) {
	n := len(a) - 1
	if n == 0 {
		return nil, nil
	}
	ct := matrix.Zeros(n, n)
	for i := 0; i < n; i++ {
		ct.Set(i, 0, -a[i+1])
		if i+1 < n {
			ct.Set(i, i+1, 1)
		}
	}
	lhs := matrix.Difference(matrix.Eye(n), ct)
	inv, err := lhs.Inverse()
	if err != nil {
		return nil, fmt.Errorf("filter initial conditions: %w", err)
	}

	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = b[i+1] - a[i+1]*b[0]
	}
	sol := matrix.Product(inv, matrix.MakeDenseMatrix(rhs, n, 1))

	zi := make([]float64, n)
	for i := range zi {
		zi[i] = sol.Get(i, 0)
	}
	return zi, nil
}

// lfilter runs a direct form II transposed filter over x. a[0] must be 1.
func lfilter(b, a, x, zi []float64) []float64 {
	z := make([]float64, len(zi))
	copy(z, zi)
	n := len(z)
	y := make([]float64, len(x))
	for k, v := range x {
		out := b[0] * v
		if n > 0 {
			out += z[0]
			for i := 0; i < n-1; i++ {
				z[i] = b[i+1]*v - a[i+1]*out + z[i+1]
			}
			z[n-1] = b[n]*v - a[n]*out
		}
		y[k] = out
	}
	return y
}

func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, 0, len(x)+2*n)
	for i := n; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 1; i <= n; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}
	return ext
}

func scaled(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
