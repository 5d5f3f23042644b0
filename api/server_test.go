package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/grid-fault-predictor/api/handlers"
	"github.com/OldStager01/grid-fault-predictor/api/middleware"
	"github.com/OldStager01/grid-fault-predictor/internal/events"
	"github.com/OldStager01/grid-fault-predictor/internal/predictor"
	"github.com/OldStager01/grid-fault-predictor/pkg/config"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

const transformerReading = `{"voltage":1800,"current":180,"power_load":45,"temperature":28,"wind_speed":15,"duration_of_fault":3,"down_time":5}`

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, p func(bus *events.EventBus) handlers.Predictor) (*Server, *events.EventBus) {
	t.Helper()
	bus := events.NewEventBus(32)
	s := NewServer(cfg, p(bus), bus)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		bus.Close()
	})
	return s, bus
}

func realPredictor(bus *events.EventBus) handlers.Predictor {
	return predictor.New(bus)
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t), realPredictor)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodPost, "/api/predict", transformerReading, http.StatusOK},
		{http.MethodGet, "/api/model-info", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/swagger/doc.json", "", http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.TraceIDHeader))
		})
	}
}

func TestServer_ReadyAsSoonAsBuilt(t *testing.T) {
	for i := 0; i < 20; i++ {
		s, _ := newTestServer(t, testConfig(t), realPredictor)
		require.True(t, s.WebSocketHub().Running())
		assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/health/ready", "").Code)
		assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/health", "").Code)
	}
}

func TestServer_PredictPublishesEvents(t *testing.T) {
	s, bus := newTestServer(t, testConfig(t), realPredictor)
	alerts := bus.Subscribe(models.EventTypeHighRiskFault)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(transformerReading))
	req.Header.Set(middleware.TraceIDHeader, "trace-server")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case e := <-alerts:
		assert.Equal(t, models.CategoryTransformerFailure, e.Category)
		assert.Equal(t, "trace-server", e.TraceID)
	case <-time.After(time.Second):
		t.Fatal("no high risk event published")
	}

	metricsBody := do(s, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `faultpredictor_predictions_total{category="Transformer Failure"}`)
}

func TestServer_DocsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.EnableDocs = false
	s, _ := newTestServer(t, cfg, realPredictor)

	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/swagger/doc.json", "").Code)
}

func TestServer_WebSocketDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.WebSocket.Enabled = false
	s, _ := newTestServer(t, cfg, realPredictor)

	assert.Nil(t, s.WebSocketHub())
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/ws", "").Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(do(s, http.MethodGet, "/health", "").Body.Bytes(), &health))
	assert.NotContains(t, health["checks"], "websocket")
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.RateLimit = 60
	cfg.API.RateBurst = 2
	s, _ := newTestServer(t, cfg, realPredictor)

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(s, http.MethodGet, "/health/live", "").Code)
}

type panickingPredictor struct{}

func (panickingPredictor) Predict(context.Context, models.SensorReading) *models.ClassificationResult {
	panic("classifier exploded")
}

func TestServer_RecoversFromPanics(t *testing.T) {
	s, bus := newTestServer(t, testConfig(t), func(*events.EventBus) handlers.Predictor {
		return panickingPredictor{}
	})
	errs := bus.Subscribe(models.EventTypeError)

	w := do(s, http.MethodPost, "/api/predict", transformerReading)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	select {
	case e := <-errs:
		assert.Equal(t, models.EventSeverityCritical, e.Severity)
		assert.NotEmpty(t, e.TraceID)
	case <-time.After(time.Second):
		t.Fatal("no error event published")
	}
}
