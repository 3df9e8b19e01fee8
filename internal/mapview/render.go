package mapview

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/map.html
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html"))

type markerView struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

type pageView struct {
	Title   string
	Center  [2]float64
	Zoom    int
	Markers []markerView
	Path    [][2]float64
}

// RenderHTML writes a standalone Leaflet page showing the map.
func RenderHTML(w io.Writer, title string, m Map) error {
	view := pageView{
		Title:   title,
		Center:  [2]float64{m.Center.Lat(), m.Center.Lon()},
		Zoom:    m.Zoom,
		Markers: make([]markerView, 0, len(m.Markers)),
		Path:    make([][2]float64, 0, len(m.Path)),
	}
	for _, mk := range m.Markers {
		view.Markers = append(view.Markers, markerView{Lat: mk.Point.Lat(), Lon: mk.Point.Lon(), Popup: mk.Popup})
	}
	for _, p := range m.Path {
		view.Path = append(view.Path, [2]float64{p.Lat(), p.Lon()})
	}
	if err := mapTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}
