package mapview

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"backend-stridelog/internal/ingest"
)

func sampleFixes() []ingest.LocationFix {
	return []ingest.LocationFix{
		{ID: "0", Time: 0, Latitude: 60.1699, Longitude: 24.9384, Height: 15.2, Velocity: 1.4},
		{ID: "1", Time: 1, Latitude: 60.1701, Longitude: 24.9386, Height: math.NaN(), Velocity: 1.5},
		{ID: "2", Time: 2, Latitude: math.NaN(), Longitude: 24.9387, Height: 15.1, Velocity: 1.6},
	}
}

func TestBuild(t *testing.T) {
	m := Build(sampleFixes(), 0)
	if m.Zoom != DefaultZoom {
		t.Fatalf("expected default zoom, got %d", m.Zoom)
	}
	if len(m.Markers) != 2 || len(m.Path) != 2 {
		t.Fatalf("expected fixes without coordinates skipped: %+v", m)
	}
	if math.Abs(m.Center.Lat()-60.17) > 1e-9 || math.Abs(m.Center.Lon()-24.9385) > 1e-9 {
		t.Fatalf("unexpected center %v", m.Center)
	}
	want := "Time: 1 s<br>Speed: 1.5 m/s<br>Height: nan m"
	if m.Markers[1].Popup != want {
		t.Fatalf("unexpected popup %q", m.Markers[1].Popup)
	}
}

func TestGeoJSON(t *testing.T) {
	body, err := GeoJSON(Build(sampleFixes(), 15))
	if err != nil {
		t.Fatalf("geojson: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 3 {
		t.Fatalf("unexpected collection: %s", body)
	}
	if fc.Features[0].Geometry.Type != "Point" || fc.Features[2].Geometry.Type != "LineString" {
		t.Fatalf("unexpected geometry order: %s", body)
	}
	if fc.Features[1].Properties["height_m"] != nil {
		t.Fatalf("expected missing height as null")
	}
	if fc.Features[0].Properties["velocity_mps"] != 1.4 {
		t.Fatalf("unexpected velocity %v", fc.Features[0].Properties["velocity_mps"])
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, "walk <1>", Build(sampleFixes(), 15)); err != nil {
		t.Fatalf("render: %v", err)
	}
	page := buf.String()
	if !strings.Contains(page, "L.map('map')") || !strings.Contains(page, "L.polyline") {
		t.Fatalf("expected leaflet map in page")
	}
	if !strings.Contains(page, "walk &lt;1&gt;") {
		t.Fatalf("expected escaped title")
	}
	if !strings.Contains(page, "60.1699") {
		t.Fatalf("expected marker coordinates in page")
	}
}

func TestFromGeoJSON(t *testing.T) {
	original := Build(sampleFixes(), 15)
	body, err := GeoJSON(original)
	if err != nil {
		t.Fatalf("geojson: %v", err)
	}
	m, err := FromGeoJSON(body, 0)
	if err != nil {
		t.Fatalf("from geojson: %v", err)
	}
	if len(m.Markers) != 2 || len(m.Path) != 2 || m.Zoom != DefaultZoom {
		t.Fatalf("unexpected map %+v", m)
	}
	if m.Markers[0].Popup != original.Markers[0].Popup || !math.IsNaN(m.Markers[1].Height) {
		t.Fatalf("expected properties restored: %+v", m.Markers)
	}
	if _, err := FromGeoJSON([]byte("nope"), 15); err == nil {
		t.Fatalf("expected decode error")
	}
}
