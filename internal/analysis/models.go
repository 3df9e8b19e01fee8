package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backend-stridelog/internal/gait"
)

// Stage names used in events, metrics and stage errors.
const (
	StageAcceleration = "acceleration"
	StageLocation     = "location"
	StageSteps        = "steps"
	StageDistance     = "distance"
	StageMap          = "map"
	StageArchive      = "archive"
	StageReport       = "report"
)

// StageError records a stage that failed while the rest of the report was
// still produced.
type StageError struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Series holds the data behind the signal and spectrum plots.
type Series struct {
	Filtered []float64 `json:"filtered"`
	Peaks    []int     `json:"peaks"`
	Freqs    []float64 `json:"freqs"`
	PSD      []float64 `json:"psd"`
}

type Report struct {
	ID           string              `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	Samples      int                 `json:"samples"`
	Fixes        int                 `json:"fixes"`
	Axis         gait.Axis           `json:"axis,omitempty"`
	Steps        []gait.StepEstimate `json:"steps,omitempty"`
	DominantFreq float64             `json:"dominant_freq_hz"`
	AvgSpeed     float64             `json:"avg_speed_mps"`
	Distance     float64             `json:"distance_m"`
	StepLength   float64             `json:"step_length_m"`
	Series       *Series             `json:"series,omitempty"`
	Map          json.RawMessage     `json:"map,omitempty"`
	Errors       []StageError        `json:"errors,omitempty"`
	Archived     bool                `json:"archived"`
}

// StepCount returns the count produced by method, if any.
func (r Report) StepCount(method gait.Method) (int, bool) {
	for _, s := range r.Steps {
		if s.Method == method {
			return s.Count, true
		}
	}
	return 0, false
}

// Failed reports whether stage recorded an error.
func (r Report) Failed(stage string) bool {
	for _, e := range r.Errors {
		if e.Stage == stage {
			return true
		}
	}
	return false
}

// Summary renders the report as the plain text block printed by the CLI.
func (r Report) Summary() string {
	var b strings.Builder
	if r.Axis != "" {
		fmt.Fprintf(&b, "Selected Component for Analysis: %s\n", strings.ToUpper(string(r.Axis)))
	}
	if n, ok := r.StepCount(gait.PeakDetection); ok {
		fmt.Fprintf(&b, "Number of Steps (Peak Detection): %d\n", n)
	}
	if n, ok := r.StepCount(gait.SpectralEstimate); ok {
		fmt.Fprintf(&b, "Number of Steps (Fourier Analysis): %d\n", n)
	}
	fmt.Fprintf(&b, "Average Speed (from GPS data): %.2f m/s\n", r.AvgSpeed)
	fmt.Fprintf(&b, "Traveled Distance (from GPS data): %.2f meters\n", r.Distance)
	fmt.Fprintf(&b, "Step Length: %.2f meters\n", r.StepLength)
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "Error in %s (%s): %s\n", e.Stage, e.Kind, e.Message)
	}
	return b.String()
}
