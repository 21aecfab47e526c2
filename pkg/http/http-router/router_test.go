package http_router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	"github.com/lintang-b-s/geo-analysis/pkg/http/http-router/controllers"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(svc controllers.AnalysisService) http.Handler {
	return NewAPI(zap.NewNop()).Handler(svc)
}

func newService() controllers.AnalysisService {
	return usecases.New(zap.NewNop(), config.AnalysisConfig{
		GridSizeKm:          10,
		ProximityKm:         10,
		TimeThresholdDays:   7,
		MaxPairwiseEntities: 100,
		IndexThreshold:      50,
	})
}

const distanceBody = `{"from":{"lat":0,"lng":0},"to":{"lat":0,"lng":1}}`

func TestHeartbeat(t *testing.T) {
	h := newTestHandler(newService())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", rec.Body.String())
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(newService())

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "case-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "case-42", rec.Header().Get("X-Request-ID"))
	})
}

func TestEnforceJSON(t *testing.T) {
	h := newTestHandler(newService())

	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"json", "application/json", http.StatusOK},
		{"json with charset", "application/json; charset=utf-8", http.StatusOK},
		{"no content type", "", http.StatusOK},
		{"plain text", "text/plain", http.StatusUnsupportedMediaType},
		{"malformed", "application/", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/distance", bytes.NewBufferString(distanceBody))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// panicService panics on every call through the nil embedded interface.
type panicService struct {
	controllers.AnalysisService
}

func TestRecoverPanic(t *testing.T) {
	h := newTestHandler(panicService{})

	req := httptest.NewRequest(http.MethodPost, "/api/distance", bytes.NewBufferString(distanceBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() { h.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "close", rec.Header().Get("Connection"))
	assert.JSONEq(t, `{"error":{"code":"internal_server_error","message":"internal server error"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `geoanalysis_http_requests_total{method="POST",path="/api/distance",status="500"}`)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(newService())

	req := httptest.NewRequest(http.MethodPost, "/api/distance", bytes.NewBufferString(distanceBody))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "geoanalysis_http_requests_total")
	assert.Contains(t, rec.Body.String(), `path="/api/distance"`)
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.1"}, "10.0.0.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.2, 10.0.0.3"}, "10.0.0.2"},
		{"garbage", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.0.2.1:1234"},
		{"none", nil, "192.0.2.1:1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
