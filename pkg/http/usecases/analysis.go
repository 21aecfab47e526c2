package usecases

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/lintang-b-s/geo-analysis/pkg"
	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	"github.com/lintang-b-s/geo-analysis/pkg/geo"
	"github.com/lintang-b-s/geo-analysis/pkg/geofence"
	"github.com/lintang-b-s/geo-analysis/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AnalysisService struct {
	log *zap.Logger

	mu  sync.RWMutex
	cfg config.AnalysisConfig
}

func New(log *zap.Logger, cfg config.AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		log: log,
		cfg: cfg,
	}
}

// SetConfig swaps the analysis defaults, used on config reload.
func (s *AnalysisService) SetConfig(cfg config.AnalysisConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *AnalysisService) Config() config.AnalysisConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// IntersectionParams. nil fields fall back to the configured defaults.
type IntersectionParams struct {
	ProximityKm       *float64
	TimeThresholdDays *int
}

// ReportParams. parameters for a full case report.
type ReportParams struct {
	GridSizeKm   *float64
	Intersection IntersectionParams
}

// CaseReport model info
//
//	@Description	every analysis of an entity set in one response.
type CaseReport struct {
	Summary       geo.Summary        `json:"summary" msgpack:"summary"`
	Hotspots      []geo.GridCell     `json:"hotspots" msgpack:"hotspots"`
	Route         geo.Route          `json:"route" msgpack:"route"`
	Intersections []geo.Intersection `json:"intersections" msgpack:"intersections"`
	Connections   []geo.DistancePair `json:"connections" msgpack:"connections"`
}

func (s *AnalysisService) Distance(from, to geo.Coordinate) (float64, error) {
	if err := validateCoordinate("from", from); err != nil {
		return 0, err
	}
	if err := validateCoordinate("to", to); err != nil {
		return 0, err
	}
	return geo.HaversineDistance(from.Lat, from.Lng, to.Lat, to.Lng), nil
}

func (s *AnalysisService) BoundingBox(center geo.Coordinate, radiusKm float64) (geo.BoundingBox, error) {
	if err := validateCoordinate("center", center); err != nil {
		return geo.BoundingBox{}, err
	}
	if err := validateNonNegative("radius_km", radiusKm); err != nil {
		return geo.BoundingBox{}, err
	}
	return geo.RadiusBoundingBox(center, radiusKm), nil
}

// Center returns nil for an empty point set.
func (s *AnalysisService) Center(points []geo.Coordinate) (*geo.Coordinate, error) {
	for i, p := range points {
		if err := validateCoordinate("points", p); err != nil {
			return nil, pkg.WrapErrorf(err, pkg.ErrBadParamInput, "point %d", i)
		}
	}
	center, ok := geo.GeoCenter(points)
	if !ok {
		return nil, nil
	}
	return &center, nil
}

func (s *AnalysisService) WithinRadius(center geo.Coordinate, radiusKm float64, entities []geo.LocatedEntity) ([]geo.EntityDistance, error) {
	const op = "radius"
	if err := validateCoordinate("center", center); err != nil {
		return nil, s.reject(op, err)
	}
	if err := validateNonNegative("radius_km", radiusKm); err != nil {
		return nil, s.reject(op, err)
	}
	if err := validateEntities(entities); err != nil {
		return nil, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return geo.EntitiesWithinRadius(center, radiusKm, entities), nil
}

func (s *AnalysisService) Pairwise(entities []geo.LocatedEntity) ([]geo.DistancePair, error) {
	const op = "pairwise"
	if err := s.validateQuadratic(entities); err != nil {
		return nil, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return geo.PairwiseDistances(entities), nil
}

func (s *AnalysisService) Hotspots(entities []geo.LocatedEntity, gridSizeKm *float64) ([]geo.GridCell, error) {
	const op = "hotspots"
	size, err := s.gridSize(gridSizeKm)
	if err != nil {
		return nil, s.reject(op, err)
	}
	if err := validateEntities(entities); err != nil {
		return nil, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return geo.GridCluster(entities, size), nil
}

func (s *AnalysisService) Route(entities []geo.LocatedEntity) (geo.Route, error) {
	const op = "route"
	if err := validateEntities(entities); err != nil {
		return geo.Route{}, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return geo.BuildRoute(entities), nil
}

func (s *AnalysisService) Intersections(entities []geo.LocatedEntity, params IntersectionParams) ([]geo.Intersection, error) {
	const op = "intersections"
	opts, err := s.proximityOptions(params)
	if err != nil {
		return nil, s.reject(op, err)
	}
	if err := s.validateQuadratic(entities); err != nil {
		return nil, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return s.findIntersections(entities, opts), nil
}

func (s *AnalysisService) Connections(entities []geo.LocatedEntity) ([]geo.DistancePair, error) {
	const op = "connections"
	if err := validateEntities(entities); err != nil {
		return nil, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return geo.ConnectionLinks(entities), nil
}

// Zones orders entities by date and reports where the timeline enters, leaves or crosses a zone.
func (s *AnalysisService) Zones(entities []geo.LocatedEntity, zones []geofence.Fence) ([]geofence.ZoneEvent, error) {
	const op = "zones"
	if err := validateEntities(entities); err != nil {
		return nil, s.reject(op, err)
	}
	if len(zones) == 0 {
		return nil, s.reject(op, pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "at least one zone is required"))
	}

	fences := geofence.NewCircleFence()
	for i, z := range zones {
		if z.Name == "" {
			return nil, s.reject(op, pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "zone %d: name is required", i))
		}
		if err := validateCoordinate(z.Name, z.Center); err != nil {
			return nil, s.reject(op, pkg.WrapErrorf(err, pkg.ErrBadParamInput, "zone %d", i))
		}
		if err := validateNonNegative("radius_km", z.RadiusKm); err != nil {
			return nil, s.reject(op, pkg.WrapErrorf(err, pkg.ErrBadParamInput, "zone %d", i))
		}
		fences.Add(z)
		if fences.Len() != i+1 {
			return nil, s.reject(op, pkg.WrapErrorf(nil, pkg.ErrConflict, "zone %q defined twice", z.Name))
		}
	}

	defer s.observe(op, len(entities), time.Now())
	return geofence.Track(geo.SortByDate(entities), fences), nil
}

func (s *AnalysisService) Summary(entities []geo.LocatedEntity) (geo.Summary, error) {
	const op = "summary"
	if err := validateEntities(entities); err != nil {
		return geo.Summary{}, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())
	return geo.Summarize(entities), nil
}

// Report runs every analysis concurrently. the core functions are pure so they share entities safely.
func (s *AnalysisService) Report(ctx context.Context, entities []geo.LocatedEntity, params ReportParams) (CaseReport, error) {
	const op = "report"
	size, err := s.gridSize(params.GridSizeKm)
	if err != nil {
		return CaseReport{}, s.reject(op, err)
	}
	opts, err := s.proximityOptions(params.Intersection)
	if err != nil {
		return CaseReport{}, s.reject(op, err)
	}
	if err := s.validateQuadratic(entities); err != nil {
		return CaseReport{}, s.reject(op, err)
	}

	defer s.observe(op, len(entities), time.Now())

	var report CaseReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Summary = geo.Summarize(entities)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Hotspots = geo.GridCluster(entities, size)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Route = geo.BuildRoute(entities)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Intersections = s.findIntersections(entities, opts)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Connections = geo.ConnectionLinks(entities)
		return nil
	})

	if err := g.Wait(); err != nil {
		return CaseReport{}, pkg.WrapErrorf(err, pkg.ErrInternalServerError, "report cancelled")
	}
	return report, nil
}

func (s *AnalysisService) findIntersections(entities []geo.LocatedEntity, opts geo.ProximityOptions) []geo.Intersection {
	if len(entities) > s.Config().IndexThreshold {
		return geo.FindIntersectionsIndexed(entities, opts)
	}
	return geo.FindIntersections(entities, opts)
}

func (s *AnalysisService) gridSize(gridSizeKm *float64) (float64, error) {
	if gridSizeKm == nil {
		return s.Config().GridSizeKm, nil
	}
	if !(*gridSizeKm > 0) || math.IsInf(*gridSizeKm, 0) {
		return 0, pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "grid_size_km must be a positive number, got %v", *gridSizeKm)
	}
	return *gridSizeKm, nil
}

func (s *AnalysisService) proximityOptions(params IntersectionParams) (geo.ProximityOptions, error) {
	cfg := s.Config()
	opts := geo.ProximityOptions{
		ProximityKm:       cfg.ProximityKm,
		TimeThresholdDays: cfg.TimeThresholdDays,
	}
	if params.ProximityKm != nil {
		if err := validateNonNegative("proximity_km", *params.ProximityKm); err != nil {
			return opts, err
		}
		opts.ProximityKm = *params.ProximityKm
	}
	if params.TimeThresholdDays != nil {
		if *params.TimeThresholdDays < 0 {
			return opts, pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "time_threshold_days must not be negative, got %d", *params.TimeThresholdDays)
		}
		opts.TimeThresholdDays = *params.TimeThresholdDays
	}
	return opts, nil
}

func (s *AnalysisService) validateQuadratic(entities []geo.LocatedEntity) error {
	if max := s.Config().MaxPairwiseEntities; len(entities) > max {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "too many entities for pairwise analysis: %d, max %d", len(entities), max)
	}
	return validateEntities(entities)
}

func (s *AnalysisService) reject(op string, err error) error {
	metrics.ObserveRejected(op)
	s.log.Debug("analysis request rejected", zap.String("operation", op), zap.Error(err))
	return err
}

func (s *AnalysisService) observe(op string, entities int, start time.Time) {
	elapsed := time.Since(start)
	metrics.ObserveOperation(op, entities, elapsed)
	s.log.Debug("analysis done", zap.String("operation", op), zap.Int("entities", entities), zap.Duration("took", elapsed))
}
