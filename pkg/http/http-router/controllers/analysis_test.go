package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	helper "github.com/lintang-b-s/geo-analysis/pkg/http/http-router/router-helper"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

func newTestRouter(cfg config.AnalysisConfig) *httprouter.Router {
	router := httprouter.New()
	api := New(usecases.New(zap.NewNop(), cfg), zap.NewNop())
	api.Routes(helper.NewRouteGroup(router, "/api"))
	return router
}

func defaultAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		GridSizeKm:          10,
		ProximityKm:         10,
		TimeThresholdDays:   7,
		MaxPairwiseEntities: 100,
		IndexThreshold:      50,
	}
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func post(t *testing.T, router http.Handler, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestDistanceHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	t.Run("london paris", func(t *testing.T) {
		rec, resp := post(t, router, "/api/distance",
			`{"from":{"lat":51.5074,"lng":-0.1278},"to":{"lat":48.8566,"lng":2.3522}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got distanceResponse
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.InDelta(t, 343.5, got.DistanceKm, 2)
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing point", `{"from":{"lat":1,"lng":1}}`},
		{"latitude out of range", `{"from":{"lat":91,"lng":1},"to":{"lat":0,"lng":0}}`},
		{"missing longitude", `{"from":{"lat":1},"to":{"lat":0,"lng":0}}`},
		{"unknown field", `{"from":{"lat":1,"lng":1},"to":{"lat":0,"lng":0},"unit":"mi"}`},
		{"malformed json", `{"from":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, router, "/api/distance", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "bad_request", resp.Error.Code)
		})
	}

	t.Run("empty body", func(t *testing.T) {
		rec, resp := post(t, router, "/api/distance", ``)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "body must not be empty", resp.Error.Message)
	})
}

func TestBoundingBoxHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	// zero coordinates are valid input
	rec, resp := post(t, router, "/api/bbox", `{"center":{"lat":0,"lng":0},"radius_km":111}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var bb struct{ North, South, East, West float64 }
	require.NoError(t, json.Unmarshal(resp.Data, &bb))
	assert.InDelta(t, 1.0, bb.North, 1e-9)
	assert.InDelta(t, -1.0, bb.West, 1e-9)

	rec, _ = post(t, router, "/api/bbox", `{"center":{"lat":0,"lng":0},"radius_km":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCenterHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	rec, resp := post(t, router, "/api/center", `{"points":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(resp.Data))

	rec, resp = post(t, router, "/api/center", `{"points":[{"lat":0,"lng":0},{"lat":2,"lng":4}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"lat":1,"lng":2}`, string(resp.Data))
}

const hotspotEntities = `{"entities":[
	{"key":"a","lat":0,"lng":0},
	{"key":"b","lat":0.001,"lng":0.001},
	{"key":"c","lat":0.002,"lng":0.002},
	{"key":"d","lat":0.003,"lng":0.003},
	{"key":"e","lat":0.004,"lng":0.004},
	{"key":"far","lat":10,"lng":10}
]`

func TestHotspotsHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	rec, resp := post(t, router, "/api/hotspots", hotspotEntities+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var cells []struct {
		Count    int `json:"count"`
		Entities []struct {
			Key string `json:"key"`
		} `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cells))
	require.Len(t, cells, 2)
	assert.Equal(t, 5, cells[0].Count)
	assert.Equal(t, 1, cells[1].Count)
	assert.Equal(t, "far", cells[1].Entities[0].Key)

	rec, _ = post(t, router, "/api/hotspots", hotspotEntities+`,"grid_size_km":-3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntersectionsHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())
	entities := `"entities":[
		{"key":"p1","lat":0,"lng":0,"date":"2024-01-01"},
		{"key":"p2","lat":0.045,"lng":0,"date":"2024-01-03"}
	]`

	type intersection struct {
		DistanceKm   float64 `json:"distance_km"`
		TimeDiffDays *int    `json:"time_diff_days"`
		TimeClose    bool    `json:"time_close"`
	}

	rec, resp := post(t, router, "/api/intersections", `{`+entities+`,"proximity_km":10,"time_threshold_days":7}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var found []intersection
	require.NoError(t, json.Unmarshal(resp.Data, &found))
	require.Len(t, found, 1)
	assert.InDelta(t, 5.0, found[0].DistanceKm, 0.1)
	require.NotNil(t, found[0].TimeDiffDays)
	assert.Equal(t, 2, *found[0].TimeDiffDays)
	assert.True(t, found[0].TimeClose)

	rec, resp = post(t, router, "/api/intersections", `{`+entities+`,"time_threshold_days":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &found))
	require.Len(t, found, 1)
	assert.False(t, found[0].TimeClose)
}

func TestPairwiseLimit(t *testing.T) {
	cfg := defaultAnalysisConfig()
	cfg.MaxPairwiseEntities = 2
	router := newTestRouter(cfg)

	rec, resp := post(t, router, "/api/pairwise", `{"entities":[
		{"key":"a","lat":0,"lng":0},{"key":"b","lat":1,"lng":1}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"distance_km"`)

	rec, resp = post(t, router, "/api/pairwise", `{"entities":[
		{"key":"a","lat":0,"lng":0},{"key":"b","lat":1,"lng":1},{"key":"c","lat":2,"lng":2}
	]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "too many entities")
}

func TestEntityValidation(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	rec, resp := post(t, router, "/api/summary", `{"entities":[{"lat":0,"lng":0}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "key")

	rec, _ = post(t, router, "/api/connections", `{"entities":[{"key":"a","lat":0,"lng":0,"connections":[{"relation":"x"}]}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	rec, resp := post(t, router, "/api/report", `{"entities":[
		{"key":"a","lat":0,"lng":0,"date":"2024-01-01","connections":[{"key":"b","relation":"met"}]},
		{"key":"b","lat":0.01,"lng":0.01,"date":"2024-01-02"},
		{"key":"c","lat":1,"lng":1}
	],"grid_size_km":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Summary struct {
			Count   int `json:"count"`
			Undated int `json:"undated"`
		} `json:"summary"`
		Hotspots      []json.RawMessage `json:"hotspots"`
		Intersections []json.RawMessage `json:"intersections"`
		Connections   []json.RawMessage `json:"connections"`
		Route         struct {
			Points []struct {
				Key string `json:"key"`
			} `json:"points"`
		} `json:"route"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, 3, report.Summary.Count)
	assert.Equal(t, 1, report.Summary.Undated)
	assert.Len(t, report.Hotspots, 2)
	assert.Len(t, report.Intersections, 1)
	assert.Len(t, report.Connections, 1)
	require.Len(t, report.Route.Points, 3)
	assert.Equal(t, "c", report.Route.Points[0].Key)
}

func TestMsgpackResponse(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/route", bytes.NewBufferString(`{"entities":[
		{"key":"x","lat":0,"lng":1,"date":"2024-01-02"},
		{"key":"y","lat":0,"lng":0,"date":"2024-01-01"}
	]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/msgpack")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeMsgpack, rec.Header().Get("Content-Type"))

	var resp struct {
		Data struct {
			Points []struct {
				Key string `msgpack:"key"`
			} `msgpack:"points"`
			DistanceKm float64 `msgpack:"distance_km"`
		} `msgpack:"data"`
	}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Points, 2)
	assert.Equal(t, "y", resp.Data.Points[0].Key)
	assert.InDelta(t, 111.2, resp.Data.DistanceKm, 0.5)
}

func TestAcceptsMsgpack(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"application/json", false},
		{"application/msgpack", true},
		{"application/json, application/x-msgpack;q=0.9", true},
		{"*/*", false},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Accept", tt.accept)
			assert.Equal(t, tt.want, acceptsMsgpack(r))
		})
	}
}

func TestZonesHandler(t *testing.T) {
	router := newTestRouter(defaultAnalysisConfig())
	entities := `"entities":[
		{"key":"station","lat":-7.5567,"lng":110.8212,"date":"2024-03-02"},
		{"key":"home","lat":-7.5780,"lng":110.8280,"date":"2024-03-01"}
	]`

	rec, resp := post(t, router, "/api/zones", `{`+entities+`,"zones":[
		{"name":"kraton","center":{"lat":-7.5773,"lng":110.8277},"radius_km":1}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []struct {
		Index  int    `json:"index"`
		Zone   string `json:"zone"`
		Status string `json:"status"`
		Entity struct {
			Key string `json:"key"`
		} `json:"entity"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "inside", events[0].Status)
	assert.Equal(t, "home", events[0].Entity.Key)
	assert.Equal(t, "exit", events[1].Status)
	assert.Equal(t, "station", events[1].Entity.Key)

	rec, _ = post(t, router, "/api/zones", `{`+entities+`,"zones":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp = post(t, router, "/api/zones", `{`+entities+`,"zones":[
		{"name":"z","center":{"lat":0,"lng":0},"radius_km":1},
		{"name":"z","center":{"lat":1,"lng":1},"radius_km":1}
	]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "conflict", resp.Error.Code)
}
