package gait

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Welch estimates the one-sided power spectral density of x in units²/Hz.
// Segments of nperseg samples overlap by half, are mean-detrended and
// Hann-windowed, and their periodograms are averaged. nperseg is clipped
// to len(x).
func Welch(x []float64, fs float64, nperseg int) (freqs, psd []float64) {
	if len(x) == 0 || nperseg < 1 {
		return nil, nil
	}
	if nperseg > len(x) {
		nperseg = len(x)
	}
	noverlap := nperseg / 2
	step := nperseg - noverlap
	nseg := (len(x) - noverlap) / step

	win := hann(nperseg)
	var wss float64
	for _, w := range win {
		wss += w * w
	}
	scale := 1 / (fs * wss)

	nbins := nperseg/2 + 1
	psd = make([]float64, nbins)
	fft := fourier.NewFFT(nperseg)
	seg := make([]float64, nperseg)
	coeffs := make([]complex128, nbins)
	for s := 0; s < nseg; s++ {
		chunk := x[s*step : s*step+nperseg]
		var mean float64
		for _, v := range chunk {
			mean += v
		}
		mean /= float64(nperseg)
		for i, v := range chunk {
			seg[i] = (v - mean) * win[i]
		}
		coeffs = fft.Coefficients(coeffs, seg)
		for k, c := range coeffs {
			p := (real(c)*real(c) + imag(c)*imag(c)) * scale
			if k > 0 && !(nperseg%2 == 0 && k == nbins-1) {
				p *= 2
			}
			psd[k] += p
		}
	}
	if nseg > 0 {
		for k := range psd {
			psd[k] /= float64(nseg)
		}
	}

	freqs = make([]float64, nbins)
	for k := range freqs {
		freqs[k] = float64(k) * fs / float64(nperseg)
	}
	return freqs, psd
}

// DominantFrequency returns the frequency of the first bin holding the
// largest power, or 0 for an empty spectrum.
func DominantFrequency(freqs, psd []float64) float64 {
	best := -1
	for i, p := range psd {
		if best < 0 || p > psd[best] {
			best = i
		}
	}
	if best < 0 || best >= len(freqs) {
		return 0
	}
	return freqs[best]
}

// hann is the periodic Hann window used for spectral analysis.
func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
