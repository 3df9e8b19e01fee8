package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"

	"backend-stridelog/internal/archive"
	"backend-stridelog/internal/gait"
	"backend-stridelog/internal/ingest"
	"backend-stridelog/internal/mapview"
	"backend-stridelog/internal/observability"
	"backend-stridelog/internal/shared/geo"
	"backend-stridelog/internal/stream"
)

var ErrReportNotFound = errors.New("report not found")

// Publisher receives stage progress events.
type Publisher interface {
	Publish(ev stream.Event)
}

// Store is the subset of the archive used by the service.
type Store interface {
	Save(ctx context.Context, rec archive.Record) (archive.Record, error)
	Get(ctx context.Context, id string) (archive.Record, error)
}

type Options struct {
	Params       gait.Params
	MapZoom      int
	MapCacheSize int
	Events       Publisher
	Store        Store
	Metrics      *observability.Metrics
}

type Service struct {
	params  gait.Params
	zoom    int
	events  Publisher
	store   Store
	metrics *observability.Metrics
	maps    *lru.Cache[string, []byte]
}

func NewService(opts Options) (*Service, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("analysis params: %w", err)
	}
	if opts.MapCacheSize <= 0 {
		opts.MapCacheSize = 32
	}
	if opts.MapZoom <= 0 {
		opts.MapZoom = mapview.DefaultZoom
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.DefaultMetrics
	}
	cache, err := lru.New[string, []byte](opts.MapCacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		params:  opts.Params,
		zoom:    opts.MapZoom,
		events:  opts.Events,
		store:   opts.Store,
		metrics: opts.Metrics,
		maps:    cache,
	}, nil
}

// Analyze runs the whole pipeline over one pair of uploads. A malformed
// acceleration file or any location loader failure aborts the run. Once
// both files are loaded, the acceleration and location branches fail
// independently and their errors are recorded on the report.
func (s *Service) Analyze(ctx context.Context, accR, locR io.Reader) (Report, error) {
	start := time.Now()
	rep := Report{ID: uuid.NewString(), CreatedAt: start.UTC()}

	s.emit(rep.ID, StageAcceleration, "started", "")
	acc, accErr := ingest.LoadAcceleration(accR)
	var parseErr *ingest.ParseError
	if errors.As(accErr, &parseErr) {
		return Report{}, s.abort(rep.ID, StageAcceleration, accErr, start)
	}

	s.emit(rep.ID, StageLocation, "started", "")
	loc, err := ingest.LoadLocation(locR)
	if err != nil {
		return Report{}, s.abort(rep.ID, StageLocation, err, start)
	}
	s.emit(rep.ID, StageLocation, "done", fmt.Sprintf("%d fixes", loc.Len()))
	rep.Fixes = loc.Len()

	if accErr != nil {
		s.fail(&rep, StageAcceleration, accErr)
	} else {
		rep.Samples = acc.Len()
		s.emit(rep.ID, StageAcceleration, "done", fmt.Sprintf("%d samples", acc.Len()))
		s.estimateSteps(&rep, acc)
	}

	s.locate(&rep, loc)

	if s.store != nil {
		s.archive(ctx, &rep)
	}

	status := "ok"
	if len(rep.Errors) > 0 {
		status = "partial"
	}
	s.metrics.RecordAnalysis(status, time.Since(start).Seconds())
	s.emit(rep.ID, StageReport, status, "")
	log.Printf("analysis %s finished: %s in %s", rep.ID, status, time.Since(start))
	return rep, nil
}

func (s *Service) estimateSteps(rep *Report, acc ingest.AccelerationTable) {
	res, err := gait.EstimateAxes(acc.X, acc.Y, acc.Z, s.params)
	rep.Axis = res.Axis
	if err != nil {
		s.fail(rep, StageSteps, &ingest.ProcessingError{Msg: err.Error()})
		return
	}
	rep.Steps = []gait.StepEstimate{res.PeakSteps, res.SpectralSteps}
	rep.DominantFreq = res.DominantFreq
	rep.Series = &Series{Filtered: res.Filtered, Peaks: res.Peaks, Freqs: res.Freqs, PSD: res.PSD}
	s.metrics.RecordSteps(res.PeakSteps.Count, res.SpectralSteps.Count, len(res.Filtered))
	s.emit(rep.ID, StageSteps, "done", fmt.Sprintf("axis %s, %d peaks", res.Axis, res.PeakSteps.Count))
}

func (s *Service) locate(rep *Report, loc ingest.LocationTable) {
	if speeds, ok := loc.Column(ingest.ColVelocity); ok {
		rep.AvgSpeed = geo.MeanSpeed(speeds)
	}
	if !loc.HasCoordinates() {
		err := &ingest.ProcessingError{Msg: "location data has no latitude/longitude columns"}
		s.fail(rep, StageDistance, err)
		s.fail(rep, StageMap, err)
		return
	}

	fixes := loc.Fixes()
	points := make([]orb.Point, len(fixes))
	finite := true
	for i, f := range fixes {
		points[i] = orb.Point{f.Longitude, f.Latitude}
		finite = finite && geo.Finite(points[i])
	}

	if finite {
		rep.Distance = geo.PathLength(points)
		if n, ok := rep.StepCount(gait.PeakDetection); ok {
			rep.StepLength = geo.StepLength(rep.Distance, n)
		}
		s.metrics.RecordDistance(rep.Distance)
		s.emit(rep.ID, StageDistance, "done", fmt.Sprintf("%.2f m", rep.Distance))
	} else {
		s.fail(rep, StageDistance, &ingest.ProcessingError{Msg: "location data has missing coordinates"})
	}

	body, err := mapview.GeoJSON(mapview.Build(fixes, s.zoom))
	if err != nil {
		s.fail(rep, StageMap, err)
		return
	}
	rep.Map = body
	s.maps.Add(rep.ID, body)
	s.emit(rep.ID, StageMap, "done", "")
}

func (s *Service) archive(ctx context.Context, rep *Report) {
	rec := archive.Record{
		ID:           rep.ID,
		Axis:         string(rep.Axis),
		DominantFreq: rep.DominantFreq,
		AvgSpeed:     finiteOrZero(rep.AvgSpeed),
		Distance:     rep.Distance,
		StepLength:   rep.StepLength,
		MapGeoJSON:   rep.Map,
	}
	rec.PeakSteps, _ = rep.StepCount(gait.PeakDetection)
	rec.SpectralSteps, _ = rep.StepCount(gait.SpectralEstimate)
	if len(rep.Errors) > 0 {
		rec.StageErrors, _ = json.Marshal(rep.Errors)
	}

	_, err := s.store.Save(ctx, rec)
	s.metrics.RecordArchiveWrite(err)
	if err != nil {
		log.Printf("archive report %s error: %v", rep.ID, err)
		s.emit(rep.ID, StageArchive, "failed", err.Error())
		return
	}
	rep.Archived = true
	s.emit(rep.ID, StageArchive, "done", "")
}

// MapGeoJSON returns the stored map of a report, from memory first and
// then from the archive.
func (s *Service) MapGeoJSON(ctx context.Context, id string) ([]byte, error) {
	if body, ok := s.maps.Get(id); ok {
		s.metrics.RecordMapLookup("cache")
		return body, nil
	}
	if s.store == nil {
		s.metrics.RecordMapLookup("miss")
		return nil, ErrReportNotFound
	}
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, archive.ErrNotFound) || (err == nil && len(rec.MapGeoJSON) == 0) {
		s.metrics.RecordMapLookup("miss")
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	s.metrics.RecordMapLookup("archive")
	s.maps.Add(id, rec.MapGeoJSON)
	return rec.MapGeoJSON, nil
}

// Map rebuilds the renderable map of a report.
func (s *Service) Map(ctx context.Context, id string) (mapview.Map, error) {
	body, err := s.MapGeoJSON(ctx, id)
	if err != nil {
		return mapview.Map{}, err
	}
	return mapview.FromGeoJSON(body, s.zoom)
}

func (s *Service) abort(id, stage string, err error, start time.Time) error {
	err = ingest.Classify(err)
	kind := ingest.KindOf(err)
	s.metrics.RecordStageFailure(stage, kind)
	s.metrics.RecordAnalysis("error", time.Since(start).Seconds())
	s.emit(id, stage, "failed", err.Error())
	log.Printf("analysis %s aborted at %s: %v", id, stage, err)
	return err
}

func (s *Service) fail(rep *Report, stage string, err error) {
	err = ingest.Classify(err)
	kind := ingest.KindOf(err)
	rep.Errors = append(rep.Errors, StageError{Stage: stage, Kind: kind, Message: err.Error()})
	s.metrics.RecordStageFailure(stage, kind)
	s.emit(rep.ID, stage, "failed", err.Error())
}

func (s *Service) emit(id, stage, status, detail string) {
	if s.events == nil {
		return
	}
	s.events.Publish(stream.Event{AnalysisID: id, Stage: stage, Status: status, Detail: detail})
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
