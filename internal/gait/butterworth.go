package gait

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Butterworth designs a digital low-pass filter of the given order and
// returns its transfer function coefficients, numerator first. The design
// goes through the analog prototype, a pre-warped cutoff and the bilinear
// transform.
func Butterworth(order int, cutoff, fs float64) (b, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("filter order must be positive, got %d", order)
	}
	wn := cutoff / (fs / 2)
	if !(wn > 0 && wn < 1) {
		return nil, nil, fmt.Errorf("normalized cutoff %v outside (0, 1)", wn)
	}

	// Normalized design runs at fs = 2, so the bilinear constant is 4.
	const k2 = 4.0
	warped := k2 * math.Tan(math.Pi*wn/2)

	poles := make([]complex128, order)
	for i := range poles {
		m := float64(-order + 1 + 2*i)
		poles[i] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order))) * complex(warped, 0)
	}
	gain := math.Pow(warped, float64(order))

	zpoles := make([]complex128, order)
	zeros := make([]complex128, order)
	den := complex(1, 0)
	for i, p := range poles {
		zpoles[i] = (k2 + p) / (k2 - p)
		zeros[i] = -1
		den *= k2 - p
	}
	gain *= real(1 / den)

	bc := poly(zeros)
	ac := poly(zpoles)
	b = make([]float64, len(bc))
	a = make([]float64, len(ac))
	for i := range bc {
		b[i] = gain * real(bc[i])
		a[i] = real(ac[i])
	}
	return b, a, nil
}

// poly expands prod(s - r) into coefficients, highest power first.
func poly(roots []complex128) []complex128 {
	c := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * r
		}
		c = next
	}
	return c
}
