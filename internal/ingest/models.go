package ingest

// Column names of the phone sensor exports.
const (
	ColAccelX = "Linear Acceleration x (m/s^2)"
	ColAccelY = "Linear Acceleration y (m/s^2)"
	ColAccelZ = "Linear Acceleration z (m/s^2)"

	ColTime      = "Time (s)"
	ColLatitude  = "Latitude (°)"
	ColLongitude = "Longitude (°)"
	ColHeight    = "Height (m)"
	ColVelocity  = "Velocity (m/s)"
)

// LocationColumns is the number of columns a location export must have.
const LocationColumns = 8

// AccelerationSample is one linear acceleration reading in m/s².
type AccelerationSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AccelerationTable holds the three acceleration axes in file order.
// Missing cells are NaN.
type AccelerationTable struct {
	Header []string
	X      []float64
	Y      []float64
	Z      []float64
}

func (t AccelerationTable) Len() int { return len(t.X) }

func (t AccelerationTable) Samples() []AccelerationSample {
	out := make([]AccelerationSample, len(t.X))
	for i := range t.X {
		out[i] = AccelerationSample{X: t.X[i], Y: t.Y[i], Z: t.Z[i]}
	}
	return out
}

// LocationFix is one GPS row. Bearing and accuracy columns are carried in
// Extra but never used.
type LocationFix struct {
	ID        string     `json:"id"`
	Time      float64    `json:"time_s"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Height    float64    `json:"height_m"`
	Velocity  float64    `json:"velocity_mps"`
	Extra     [2]float64 `json:"-"`
}

// LocationTable is a validated location export. IDs holds the first column
// as text; Columns holds every other column coerced to float (NaN if not
// numeric), keyed by header name.
type LocationTable struct {
	Header  []string
	IDs     []string
	Columns map[string][]float64
}

func (t LocationTable) Len() int { return len(t.IDs) }

// Column returns the named numeric column.
func (t LocationTable) Column(name string) ([]float64, bool) {
	c, ok := t.Columns[name]
	return c, ok
}

// HasCoordinates reports whether both latitude and longitude columns exist.
func (t LocationTable) HasCoordinates() bool {
	_, lat := t.Columns[ColLatitude]
	_, lon := t.Columns[ColLongitude]
	return lat && lon
}

// Fixes assembles typed rows. Columns that are absent read as NaN.
func (t LocationTable) Fixes() []LocationFix {
	if len(t.Header) == 0 {
		return nil
	}
	get := func(name string, i int) float64 {
		if c, ok := t.Columns[name]; ok {
			return c[i]
		}
		// Exports that lead with the time column keep it as the row id.
		if name == t.Header[0] {
			return coerce(t.IDs[i])
		}
		return nan
	}

	var extra []string
	for _, h := range t.Header[1:] {
		switch h {
		case ColTime, ColLatitude, ColLongitude, ColHeight, ColVelocity:
		default:
			extra = append(extra, h)
		}
	}

	fixes := make([]LocationFix, t.Len())
	for i := range fixes {
		f := LocationFix{
			ID:        t.IDs[i],
			Time:      get(ColTime, i),
			Latitude:  get(ColLatitude, i),
			Longitude: get(ColLongitude, i),
			Height:    get(ColHeight, i),
			Velocity:  get(ColVelocity, i),
		}
		for j := 0; j < len(extra) && j < len(f.Extra); j++ {
			f.Extra[j] = get(extra[j], i)
		}
		fixes[i] = f
	}
	return fixes
}
