// Command analyze runs the step and distance pipeline over a pair of sensor
// exports on the local machine and prints the report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"backend-stridelog/internal/analysis"
	"backend-stridelog/internal/config"
	"backend-stridelog/internal/mapview"
	"backend-stridelog/internal/observability"

	"github.com/prometheus/client_golang/prometheus"
)

var loadConfig = config.Load

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("analyze: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stdout)
	accPath := fs.String("acc", "Accelerometer.csv", "accelerometer CSV export")
	locPath := fs.String("loc", "Location.csv", "location CSV export")
	htmlOut := fs.String("map", "", "write the Leaflet map to this HTML file")
	geoOut := fs.String("geojson", "", "write the map as GeoJSON to this file")
	asJSON := fs.Bool("json", false, "print the full report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig()
	svc, err := analysis.NewService(analysis.Options{
		Params:  cfg.PipelineParams(),
		MapZoom: cfg.MapZoom,
		Metrics: observability.NewMetrics("stridelog_cli", prometheus.NewRegistry()),
	})
	if err != nil {
		return err
	}

	acc, err := os.Open(*accPath)
	if err != nil {
		return err
	}
	defer acc.Close()
	loc, err := os.Open(*locPath)
	if err != nil {
		return err
	}
	defer loc.Close()

	rep, err := svc.Analyze(context.Background(), acc, loc)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		fmt.Fprint(stdout, rep.Summary())
	}

	if *geoOut == "" && *htmlOut == "" {
		return nil
	}
	if len(rep.Map) == 0 {
		return errors.New("no map was produced for this run")
	}
	if *geoOut != "" {
		if err := os.WriteFile(*geoOut, rep.Map, 0o644); err != nil {
			return err
		}
	}
	if *htmlOut != "" {
		m, err := mapview.FromGeoJSON(rep.Map, cfg.MapZoom)
		if err != nil {
			return err
		}
		f, err := os.Create(*htmlOut)
		if err != nil {
			return err
		}
		if err := mapview.RenderHTML(f, "Route "+rep.ID, m); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return nil
}
