package gait

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, seconds, fs float64) []float64 {
	n := int(seconds * fs)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return out
}

func TestSelectAxis(t *testing.T) {
	x := []float64{0, 4, -4, 4, -4}
	y := []float64{0, 2, -2, 2, -2}
	z := []float64{0, 1, -1, 1, -1}

	axis, signal := SelectAxis(x, y, z)
	assert.Equal(t, AxisX, axis)
	assert.Equal(t, x, signal)

	axis, _ = SelectAxis(z, x, y)
	assert.Equal(t, AxisY, axis)

	axis, _ = SelectAxis(z, y, x)
	assert.Equal(t, AxisZ, axis)
}

func TestSelectAxisTies(t *testing.T) {
	a := []float64{1, -1, 1, -1}
	small := []float64{0.1, -0.1, 0.1, -0.1}

	axis, _ := SelectAxis(a, a, a)
	assert.Equal(t, AxisZ, axis, "three-way tie resolves to z")

	axis, _ = SelectAxis(a, a, small)
	assert.Equal(t, AxisY, axis, "x tied with y resolves to y")

	axis, _ = SelectAxis(a, small, a)
	assert.Equal(t, AxisZ, axis, "x tied with z resolves to z")
}

func TestSelectAxisSkipsMissing(t *testing.T) {
	x := []float64{math.NaN(), 10, -10, 10, -10}
	y := []float64{1, -1, 1, -1, 1}
	z := []float64{0, 0, 0, 0, 0}

	axis, _ := SelectAxis(x, y, z)
	assert.Equal(t, AxisX, axis)
	assert.InDelta(t, 1.0954, StdDev(y), 1e-4)
	assert.True(t, math.IsNaN(StdDev([]float64{math.NaN(), 1})))
}

func TestButterworth(t *testing.T) {
	b, a, err := Butterworth(4, 3, 50)
	require.NoError(t, err)
	require.Len(t, b, 5)
	require.Len(t, a, 5)

	want := []float64{1, -3.0175552387, 3.5071937247, -1.8475509441, 0.3708142159}
	for i := range want {
		assert.InDelta(t, want[i], a[i], 1e-8)
	}
	assert.InDelta(t, 0.00080636, b[0], 1e-8)
	assert.InDelta(t, b[0], b[4], 1e-12)
	assert.InDelta(t, b[1], b[3], 1e-12)

	var sb, sa float64
	for i := range b {
		sb += b[i]
		sa += a[i]
	}
	assert.InDelta(t, 1, sb/sa, 1e-9, "unit gain at DC")
}

func TestButterworthRejectsBadCutoff(t *testing.T) {
	_, _, err := Butterworth(4, 30, 50)
	assert.Error(t, err)
	_, _, err = Butterworth(0, 3, 50)
	assert.Error(t, err)
}

func TestFiltFiltConstant(t *testing.T) {
	b, a, err := Butterworth(4, 3, 50)
	require.NoError(t, err)

	x := make([]float64, 40)
	for i := range x {
		x[i] = 3
	}
	y, err := FiltFilt(b, a, x)
	require.NoError(t, err)
	require.Len(t, y, len(x))
	for _, v := range y {
		assert.InDelta(t, 3, v, 1e-9)
	}
}

func TestFiltFiltRemovesHighFrequency(t *testing.T) {
	b, a, err := Butterworth(4, 3, 50)
	require.NoError(t, err)

	noise := sine(12, 20, 50)
	y, err := FiltFilt(b, a, noise)
	require.NoError(t, err)
	for _, v := range y[100 : len(y)-100] {
		assert.Less(t, math.Abs(v), 0.01)
	}
}

func TestRefilterIsStable(t *testing.T) {
	b, a, err := Butterworth(4, 3, 50)
	require.NoError(t, err)

	once, err := FiltFilt(b, a, sine(1, 60, 50))
	require.NoError(t, err)
	twice, err := FiltFilt(b, a, once)
	require.NoError(t, err)

	for i := range once {
		assert.InDelta(t, once[i], twice[i], 0.05)
	}
}

func TestFiltFiltErrors(t *testing.T) {
	b, a, err := Butterworth(4, 3, 50)
	require.NoError(t, err)

	_, err = FiltFilt(b, a, make([]float64, 15))
	assert.True(t, errors.Is(err, ErrSignalTooShort))

	y, err := FiltFilt(b, a, make([]float64, 16))
	require.NoError(t, err)
	assert.Len(t, y, 16)

	x := sine(1, 2, 50)
	x[10] = math.NaN()
	_, err = FiltFilt(b, a, x)
	assert.True(t, errors.Is(err, ErrMissingSamples))
}

func TestFindPeaks(t *testing.T) {
	assert.Equal(t, []int{3, 7}, FindPeaks([]float64{0, 1, 2, 2, 2, 1, 0, 3, 3, 0}, 0))
	assert.Equal(t, []int{1, 3, 5}, FindPeaks([]float64{0, 1, 0, 2, 0, 3, 0}, 2))
	assert.Equal(t, []int{1, 7}, FindPeaks([]float64{0, 5, 0, 1, 0, 0, 0, 4, 0}, 3))
	assert.Empty(t, FindPeaks([]float64{1, 1, 1}, 25))
	assert.Empty(t, FindPeaks([]float64{0, 2, 2}, 25))
	assert.Empty(t, FindPeaks(nil, 25))
}

func TestFindPeaksKeepsHigherNeighbour(t *testing.T) {
	x := []float64{0, 1, 0, 5, 0, 2, 0}
	assert.Equal(t, []int{3}, FindPeaks(x, 3))
}

func TestWelchDominantFrequency(t *testing.T) {
	const fs, f = 50.0, 1.5
	freqs, psd := Welch(sine(f, 20, fs), fs, 512)
	require.Len(t, freqs, 257)
	require.Len(t, psd, 257)
	assert.InDelta(t, fs/512, freqs[1], 1e-12)
	assert.InDelta(t, f, DominantFrequency(freqs, psd), fs/512)
}

func TestWelchClipsSegment(t *testing.T) {
	freqs, psd := Welch(sine(2, 4, 50), 50, 512)
	require.Len(t, freqs, 101)
	require.Len(t, psd, 101)
	assert.InDelta(t, 2, DominantFrequency(freqs, psd), 50.0/200)
}

func TestDominantFrequencyFirstMax(t *testing.T) {
	assert.Equal(t, 1.0, DominantFrequency([]float64{0, 1, 2}, []float64{0, 3, 3}))
	assert.Equal(t, 0.0, DominantFrequency(nil, nil))
}

func TestEstimateSine(t *testing.T) {
	res, err := Estimate(sine(1.5, 20, 50), DefaultParams())
	require.NoError(t, err)

	assert.Len(t, res.Filtered, 1000)
	assert.InDelta(t, 30, res.PeakSteps.Count, 1)
	assert.Equal(t, PeakDetection, res.PeakSteps.Method)
	assert.Equal(t, SpectralEstimate, res.SpectralSteps.Method)
	assert.InDelta(t, 1.5, res.DominantFreq, 50.0/512)
	assert.Equal(t, int(res.DominantFreq*1000/50), res.SpectralSteps.Count)
}

func TestEstimateAxes(t *testing.T) {
	x := sine(1.5, 20, 50)
	y := make([]float64, len(x))
	z := make([]float64, len(x))
	for i := range x {
		y[i] = 0.1 * x[i]
	}

	res, err := EstimateAxes(x, y, z, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, AxisX, res.Axis)

	res, err = EstimateAxes(x[:10], y[:10], z[:10], DefaultParams())
	assert.ErrorIs(t, err, ErrSignalTooShort)
	assert.Equal(t, AxisX, res.Axis)
}

func TestSpectralCount(t *testing.T) {
	assert.Equal(t, 29, SpectralCount(1.46484375, 1000, 50))
	// duration first: 2.734375 Hz over 89.6 s truncates to 244, not 245.
	assert.Equal(t, 244, SpectralCount(28*50.0/512, 4480, 50))
	assert.Equal(t, 0, SpectralCount(0, 1000, 50))
	assert.Equal(t, 0, SpectralCount(math.NaN(), 1000, 50))
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	p := DefaultParams()
	p.Cutoff = 25
	assert.Error(t, p.Validate())
	p = DefaultParams()
	p.PeakSpacing = 0
	assert.Equal(t, 25, p.spacing())
}
