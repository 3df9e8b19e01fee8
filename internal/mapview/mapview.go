package mapview

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"backend-stridelog/internal/ingest"
	"backend-stridelog/internal/shared/geo"
)

// DefaultZoom frames a walk of a few kilometres.
const DefaultZoom = 15

// Marker is one GPS fix shown on the map.
type Marker struct {
	Point    orb.Point `json:"point"`
	Time     float64   `json:"time_s"`
	Velocity float64   `json:"velocity_mps"`
	Height   float64   `json:"height_m"`
	Popup    string    `json:"popup"`
}

// Map is a renderable path: one marker per fix joined by a polyline.
type Map struct {
	Center  orb.Point      `json:"center"`
	Zoom    int            `json:"zoom"`
	Markers []Marker       `json:"markers"`
	Path    orb.LineString `json:"path"`
}

// Build lays out fixes in file order. Fixes without usable coordinates are
// left off the map.
func Build(fixes []ingest.LocationFix, zoom int) Map {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	m := Map{Zoom: zoom}
	points := make([]orb.Point, 0, len(fixes))
	for _, f := range fixes {
		p := orb.Point{f.Longitude, f.Latitude}
		if !geo.Finite(p) {
			continue
		}
		points = append(points, p)
		m.Markers = append(m.Markers, Marker{
			Point:    p,
			Time:     f.Time,
			Velocity: f.Velocity,
			Height:   f.Height,
			Popup:    popup(f),
		})
	}
	m.Path = orb.LineString(points)
	m.Center = geo.Center(points)
	return m
}

func popup(f ingest.LocationFix) string {
	return "Time: " + num(f.Time) + " s<br>" +
		"Speed: " + num(f.Velocity) + " m/s<br>" +
		"Height: " + num(f.Height) + " m"
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
