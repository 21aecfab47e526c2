package controllers

import (
	"context"

	"github.com/lintang-b-s/geo-analysis/pkg/geo"
	"github.com/lintang-b-s/geo-analysis/pkg/geofence"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"
)

type AnalysisService interface {
	Distance(from, to geo.Coordinate) (float64, error)
	BoundingBox(center geo.Coordinate, radiusKm float64) (geo.BoundingBox, error)
	Center(points []geo.Coordinate) (*geo.Coordinate, error)
	WithinRadius(center geo.Coordinate, radiusKm float64, entities []geo.LocatedEntity) ([]geo.EntityDistance, error)
	Pairwise(entities []geo.LocatedEntity) ([]geo.DistancePair, error)
	Hotspots(entities []geo.LocatedEntity, gridSizeKm *float64) ([]geo.GridCell, error)
	Route(entities []geo.LocatedEntity) (geo.Route, error)
	Intersections(entities []geo.LocatedEntity, params usecases.IntersectionParams) ([]geo.Intersection, error)
	Connections(entities []geo.LocatedEntity) ([]geo.DistancePair, error)
	Zones(entities []geo.LocatedEntity, zones []geofence.Fence) ([]geofence.ZoneEvent, error)
	Summary(entities []geo.LocatedEntity) (geo.Summary, error)
	Report(ctx context.Context, entities []geo.LocatedEntity, params usecases.ReportParams) (usecases.CaseReport, error)
}
