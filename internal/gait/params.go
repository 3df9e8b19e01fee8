package gait

import (
	"fmt"
	"math"
)

// Axis names one of the three accelerometer axes.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// Params controls the step pipeline. The zero PeakSpacing means half a
// second of samples.
type Params struct {
	SampleRate   float64
	Cutoff       float64
	Order        int
	WelchSegment int
	PeakSpacing  int
}

// DefaultParams returns the settings for walking recorded at 50 Hz.
func DefaultParams() Params {
	return Params{
		SampleRate:   50,
		Cutoff:       3,
		Order:        4,
		WelchSegment: 512,
		PeakSpacing:  25,
	}
}

func (p Params) Validate() error {
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %v", p.SampleRate)
	}
	if p.Cutoff <= 0 || p.Cutoff >= p.SampleRate/2 {
		return fmt.Errorf("cutoff %v Hz must lie between 0 and %v Hz", p.Cutoff, p.SampleRate/2)
	}
	if p.Order < 1 {
		return fmt.Errorf("filter order must be positive, got %d", p.Order)
	}
	if p.WelchSegment < 1 {
		return fmt.Errorf("welch segment must be positive, got %d", p.WelchSegment)
	}
	return nil
}

func (p Params) spacing() int {
	if p.PeakSpacing > 0 {
		return p.PeakSpacing
	}
	return int(math.Ceil(p.SampleRate / 2))
}
