package gait

import (
	"fmt"
	"math"
)

// Method names how a step count was obtained.
type Method string

const (
	PeakDetection    Method = "peak_detection"
	SpectralEstimate Method = "spectral_estimate"
)

// StepEstimate is one step count and the method that produced it.
type StepEstimate struct {
	Method Method `json:"method"`
	Count  int    `json:"count"`
}

// Result carries both step estimates and the series behind them.
type Result struct {
	Axis          Axis         `json:"axis"`
	Filtered      []float64    `json:"filtered"`
	Peaks         []int        `json:"peaks"`
	Freqs         []float64    `json:"freqs"`
	PSD           []float64    `json:"psd"`
	DominantFreq  float64      `json:"dominant_freq_hz"`
	PeakSteps     StepEstimate `json:"peak_steps"`
	SpectralSteps StepEstimate `json:"spectral_steps"`
}

// Estimate low-pass filters signal and counts steps both from peaks in the
// filtered signal and from its dominant frequency.
func Estimate(signal []float64, p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	b, a, err := Butterworth(p.Order, p.Cutoff, p.SampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("design filter: %w", err)
	}
	filtered, err := FiltFilt(b, a, signal)
	if err != nil {
		return Result{}, fmt.Errorf("filter signal: %w", err)
	}

	peaks := FindPeaks(filtered, p.spacing())
	freqs, psd := Welch(filtered, p.SampleRate, p.WelchSegment)
	dominant := DominantFrequency(freqs, psd)

	return Result{
		Filtered:      filtered,
		Peaks:         peaks,
		Freqs:         freqs,
		PSD:           psd,
		DominantFreq:  dominant,
		PeakSteps:     StepEstimate{Method: PeakDetection, Count: len(peaks)},
		SpectralSteps: StepEstimate{Method: SpectralEstimate, Count: SpectralCount(dominant, len(filtered), p.SampleRate)},
	}, nil
}

// EstimateAxes selects the most active axis and runs Estimate on it.
func EstimateAxes(x, y, z []float64, p Params) (Result, error) {
	axis, signal := SelectAxis(x, y, z)
	res, err := Estimate(signal, p)
	res.Axis = axis
	return res, err
}

// SpectralCount converts a cadence in Hz to a step count over n samples,
// truncating toward zero.
func SpectralCount(dominant float64, n int, fs float64) int {
	steps := math.Trunc(dominant * (float64(n) / fs))
	if steps < 0 || math.IsNaN(steps) {
		return 0
	}
	return int(steps)
}
