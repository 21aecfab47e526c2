package controllers

import (
	"net/http"

	"github.com/lintang-b-s/geo-analysis/pkg/geo"
	"github.com/lintang-b-s/geo-analysis/pkg/geofence"
	helper "github.com/lintang-b-s/geo-analysis/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type analysisAPI struct {
	analysisService AnalysisService
	log             *zap.Logger
}

func New(analysisService AnalysisService, log *zap.Logger) *analysisAPI {
	return &analysisAPI{
		analysisService: analysisService,
		log:             log,
	}
}

func (api *analysisAPI) Routes(group *helper.RouteGroup) {
	group.POST("/distance", api.distance)
	group.POST("/bbox", api.boundingBox)
	group.POST("/center", api.center)
	group.POST("/radius", api.radius)
	group.POST("/pairwise", api.pairwise)
	group.POST("/hotspots", api.hotspots)
	group.POST("/route", api.route)
	group.POST("/intersections", api.intersections)
	group.POST("/connections", api.connections)
	group.POST("/zones", api.zones)
	group.POST("/summary", api.summary)
	group.POST("/report", api.report)
}

// coordinateRequest model info
//
//	@Description	a point in decimal degrees.
type coordinateRequest struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`
}

func (c *coordinateRequest) toCoordinate() geo.Coordinate {
	return geo.NewCoordinate(*c.Lat, *c.Lng)
}

type connectionRequest struct {
	Key      string `json:"key" validate:"required"`
	Relation string `json:"relation"`
}

// entityRequest model info
//
//	@Description	an entity with a position, an optional date and optional links to other entities.
type entityRequest struct {
	Key         string              `json:"key" validate:"required"`
	Lat         *float64            `json:"lat" validate:"required,min=-90,max=90"`
	Lng         *float64            `json:"lng" validate:"required,min=-180,max=180"`
	Date        string              `json:"date"` // ISO 8601, optional
	Type        string              `json:"type"`
	Connections []connectionRequest `json:"connections" validate:"dive"`
}

type entitiesRequest struct {
	Entities []entityRequest `json:"entities" validate:"dive"`
}

func (req *entitiesRequest) toEntities() []geo.LocatedEntity {
	entities := make([]geo.LocatedEntity, len(req.Entities))
	for i, e := range req.Entities {
		entities[i] = geo.NewLocatedEntity(e.Key, *e.Lat, *e.Lng, e.Date, e.Type)
		for _, c := range e.Connections {
			entities[i].Connections = append(entities[i].Connections, geo.Connection{Key: c.Key, Relation: c.Relation})
		}
	}
	return entities
}

type distanceRequest struct {
	From *coordinateRequest `json:"from" validate:"required"`
	To   *coordinateRequest `json:"to" validate:"required"`
}

type distanceResponse struct {
	DistanceKm float64 `json:"distance_km" msgpack:"distance_km"`
}

// distance godoc
// @Summary		great-circle distance between two points.
// @Description	haversine distance in kilometres between two points.
// @Tags			geometry
// @ID distance
// @Param			body	body	distanceRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/distance [post]
// @Success		200	{object}	distanceResponse
// @Failure		400	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *analysisAPI) distance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request distanceRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	d, err := api.analysisService.Distance(request.From.toCoordinate(), request.To.toCoordinate())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": distanceResponse{DistanceKm: d}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type boundingBoxRequest struct {
	Center   *coordinateRequest `json:"center" validate:"required"`
	RadiusKm *float64           `json:"radius_km" validate:"required,min=0"`
}

// boundingBox godoc
// @Summary		approximate bounding box covering a radius around a point.
// @Tags			geometry
// @ID bbox
// @Param			body	body	boundingBoxRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/bbox [post]
// @Success		200	{object}	geo.BoundingBox
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) boundingBox(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request boundingBoxRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	bb, err := api.analysisService.BoundingBox(request.Center.toCoordinate(), *request.RadiusKm)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": bb}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type centerRequest struct {
	Points []coordinateRequest `json:"points" validate:"dive"`
}

// center godoc
// @Summary		arithmetic mean of a set of points. data is null for an empty set.
// @Tags			geometry
// @ID center
// @Param			body	body	centerRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/center [post]
// @Success		200	{object}	geo.Coordinate
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) center(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request centerRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	points := make([]geo.Coordinate, len(request.Points))
	for i := range request.Points {
		points[i] = request.Points[i].toCoordinate()
	}

	center, err := api.analysisService.Center(points)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": center}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type radiusRequest struct {
	entitiesRequest
	Center   *coordinateRequest `json:"center" validate:"required"`
	RadiusKm *float64           `json:"radius_km" validate:"required,min=0"`
}

// radius godoc
// @Summary		entities within radius_km of center, nearest first.
// @Tags			analysis
// @ID radius
// @Param			body	body	radiusRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/radius [post]
// @Success		200	{array}	geo.EntityDistance
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) radius(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request radiusRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	results, err := api.analysisService.WithinRadius(request.Center.toCoordinate(), *request.RadiusKm, request.toEntities())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": results}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// pairwise godoc
// @Summary		distance of every unordered entity pair, closest first.
// @Tags			analysis
// @ID pairwise
// @Param			body	body	entitiesRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/pairwise [post]
// @Success		200	{array}	geo.DistancePair
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) pairwise(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request entitiesRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	pairs, err := api.analysisService.Pairwise(request.toEntities())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": pairs}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type hotspotsRequest struct {
	entitiesRequest
	GridSizeKm *float64 `json:"grid_size_km" validate:"omitempty,gt=0"`
}

// hotspots godoc
// @Summary		grid clustering of entities, busiest cell first.
// @Tags			analysis
// @ID hotspots
// @Param			body	body	hotspotsRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/hotspots [post]
// @Success		200	{array}	geo.GridCell
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) hotspots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request hotspotsRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	cells, err := api.analysisService.Hotspots(request.toEntities(), request.GridSizeKm)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": cells}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// route godoc
// @Summary		entities in date order with the distance and day gap of every leg.
// @Tags			analysis
// @ID route
// @Param			body	body	entitiesRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/route [post]
// @Success		200	{object}	geo.Route
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) route(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request entitiesRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.analysisService.Route(request.toEntities())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": route}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type intersectionsRequest struct {
	entitiesRequest
	ProximityKm       *float64 `json:"proximity_km" validate:"omitempty,min=0"`
	TimeThresholdDays *int     `json:"time_threshold_days" validate:"omitempty,min=0"`
}

func (req *intersectionsRequest) params() usecases.IntersectionParams {
	return usecases.IntersectionParams{
		ProximityKm:       req.ProximityKm,
		TimeThresholdDays: req.TimeThresholdDays,
	}
}

// intersections godoc
// @Summary		entity pairs within proximity_km of each other, time_close set for pairs dated within time_threshold_days.
// @Tags			analysis
// @ID intersections
// @Param			body	body	intersectionsRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/intersections [post]
// @Success		200	{array}	geo.Intersection
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) intersections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request intersectionsRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	found, err := api.analysisService.Intersections(request.toEntities(), request.params())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": found}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// connections godoc
// @Summary		links declared between entities, resolved by key, with their distance.
// @Tags			analysis
// @ID connections
// @Param			body	body	entitiesRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/connections [post]
// @Success		200	{array}	geo.DistancePair
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) connections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request entitiesRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	links, err := api.analysisService.Connections(request.toEntities())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": links}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type zoneRequest struct {
	Name     string             `json:"name" validate:"required"`
	Center   *coordinateRequest `json:"center" validate:"required"`
	RadiusKm *float64           `json:"radius_km" validate:"required,min=0"`
}

type zonesRequest struct {
	entitiesRequest
	Zones []zoneRequest `json:"zones" validate:"required,min=1,dive"`
}

// zones godoc
// @Summary		zones entered, left or crossed by the date-ordered timeline of the entities.
// @Tags			analysis
// @ID zones
// @Param			body	body	zonesRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/zones [post]
// @Success		200	{array}	geofence.ZoneEvent
// @Failure		400	{object}	errorResponse
// @Failure		409	{object}	errorResponse
func (api *analysisAPI) zones(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request zonesRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	zones := make([]geofence.Fence, len(request.Zones))
	for i, z := range request.Zones {
		zones[i] = geofence.NewFence(z.Name, z.Center.toCoordinate(), *z.RadiusKm)
	}

	events, err := api.analysisService.Zones(request.toEntities(), zones)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": events}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// summary godoc
// @Summary		counts, extent, center and date span of an entity set.
// @Tags			analysis
// @ID summary
// @Param			body	body	entitiesRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/summary [post]
// @Success		200	{object}	geo.Summary
// @Failure		400	{object}	errorResponse
func (api *analysisAPI) summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request entitiesRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	summary, err := api.analysisService.Summary(request.toEntities())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": summary}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

type reportRequest struct {
	intersectionsRequest
	GridSizeKm *float64 `json:"grid_size_km" validate:"omitempty,gt=0"`
}

// report godoc
// @Summary		summary, hotspots, route, intersections and connections of one entity set.
// @Tags			analysis
// @ID report
// @Param			body	body	reportRequest	true
// @Accept			application/json
// @Produce		application/json,application/msgpack
// @Router			/api/report [post]
// @Success		200	{object}	usecases.CaseReport
// @Failure		400	{object}	errorResponse
// @Failure		500	{object}	errorResponse
func (api *analysisAPI) report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request reportRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	report, err := api.analysisService.Report(r.Context(), request.toEntities(), usecases.ReportParams{
		GridSizeKm:   request.GridSizeKm,
		Intersection: request.params(),
	})
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	if err := api.writeResponse(w, r, http.StatusOK, envelope{"data": report}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
