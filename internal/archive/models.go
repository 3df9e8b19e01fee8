package archive

import (
	"encoding/json"
	"time"
)

// Record is the archived summary of one analysis. StageErrors and
// MapGeoJSON are stored as JSON documents.
type Record struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Axis          string          `json:"axis"`
	PeakSteps     int             `json:"peak_steps"`
	SpectralSteps int             `json:"spectral_steps"`
	DominantFreq  float64         `json:"dominant_freq_hz"`
	AvgSpeed      float64         `json:"avg_speed_mps"`
	Distance      float64         `json:"distance_m"`
	StepLength    float64         `json:"step_length_m"`
	StageErrors   json.RawMessage `json:"stage_errors,omitempty"`
	MapGeoJSON    json.RawMessage `json:"map,omitempty"`
}
