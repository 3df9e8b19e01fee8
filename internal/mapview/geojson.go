package mapview

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"backend-stridelog/internal/shared/geo"
)

// GeoJSON encodes the map as a FeatureCollection: a Point feature per
// marker followed by a LineString feature for the path. Missing readings
// are written as null.
func GeoJSON(m Map) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, mk := range m.Markers {
		f := geojson.NewFeature(mk.Point)
		f.Properties["time_s"] = nullable(mk.Time)
		f.Properties["velocity_mps"] = nullable(mk.Velocity)
		f.Properties["height_m"] = nullable(mk.Height)
		f.Properties["popup"] = mk.Popup
		fc.Append(f)
	}
	if len(m.Path) > 1 {
		path := geojson.NewFeature(m.Path)
		path.Properties["kind"] = "path"
		fc.Append(path)
	}
	body, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return body, nil
}

func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// FromGeoJSON rebuilds a map from a collection written by GeoJSON.
func FromGeoJSON(data []byte, zoom int) (Map, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Map{}, fmt.Errorf("decode geojson: %w", err)
	}
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	m := Map{Zoom: zoom}
	var points []orb.Point
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			points = append(points, g)
			m.Markers = append(m.Markers, Marker{
				Point:    g,
				Time:     number(f.Properties, "time_s"),
				Velocity: number(f.Properties, "velocity_mps"),
				Height:   number(f.Properties, "height_m"),
				Popup:    f.Properties.MustString("popup", ""),
			})
		case orb.LineString:
			m.Path = g
		}
	}
	if m.Path == nil {
		m.Path = orb.LineString(points)
	}
	m.Center = geo.Center(points)
	return m, nil
}

func number(p geojson.Properties, key string) float64 {
	if v, ok := p[key].(float64); ok {
		return v
	}
	return math.NaN()
}
