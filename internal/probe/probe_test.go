package probe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/grid-fault-predictor/internal/classifier"
	"github.com/OldStager01/grid-fault-predictor/internal/resilience"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// classifyingServer answers /api/predict with the local classifier.
func classifyingServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/predict", func(w http.ResponseWriter, r *http.Request) {
		var reading models.SensorReading
		if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad json"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(classifier.Classify(reading))
	})
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_Predict(t *testing.T) {
	srv := classifyingServer(t)
	client := NewHTTPClient(HTTPClientConfig{Endpoint: srv.URL + "/", Timeout: time.Second})
	defer client.Close()

	result, err := client.Predict(context.Background(), models.SensorReading{
		Voltage: 1800, Current: 180, PowerLoad: 45, Temperature: 28, WindSpeed: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTransformerFailure, result.Prediction)
	assert.Equal(t, models.SeverityHigh, result.FaultDetails.Severity)
	assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-9)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, `{"error":"missing field: voltage"}`, ErrRejected},
		{"unprocessable", http.StatusUnprocessableEntity, `{"error":"out of range"}`, ErrRejected},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ErrRequestFailed},
		{"garbage body", http.StatusOK, `not json`, ErrInvalidResponse},
		{"empty prediction", http.StatusOK, `{"confidence":0.5}`, ErrInvalidResponse},
		{"unexpected status", http.StatusNoContent, ``, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewHTTPClient(HTTPClientConfig{Endpoint: srv.URL})
			_, err := client.Predict(context.Background(), models.SensorReading{Voltage: 1})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestHTTPClient_RejectedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"missing field: voltage"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(HTTPClientConfig{Endpoint: srv.URL}).Predict(context.Background(), models.SensorReading{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing field: voltage")
}

func TestHTTPClient_HealthCheck(t *testing.T) {
	srv := classifyingServer(t)
	client := NewHTTPClient(HTTPClientConfig{Endpoint: srv.URL})
	assert.NoError(t, client.HealthCheck(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, NewHTTPClient(HTTPClientConfig{Endpoint: down.URL}).HealthCheck(context.Background()))
}

type stubClient struct {
	calls   atomic.Int32
	results []error
	result  *models.ClassificationResult
}

func (s *stubClient) Predict(ctx context.Context, reading models.SensorReading) (*models.ClassificationResult, error) {
	n := int(s.calls.Add(1)) - 1
	if n < len(s.results) && s.results[n] != nil {
		return nil, s.results[n]
	}
	return s.result, nil
}

func (s *stubClient) HealthCheck(ctx context.Context) error { return nil }
func (s *stubClient) Close() error                          { return nil }

var hotReading = models.SensorReading{Voltage: 2200, Current: 150, Temperature: 40}

func TestResilientClient_RetriesTransientFailures(t *testing.T) {
	stub := &stubClient{
		results: []error{ErrRequestFailed, ErrTimeout},
		result:  classifier.Classify(hotReading),
	}
	rc := NewResilientClient(ResilientClientConfig{
		Client:        stub,
		MaxFailures:   3,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	result, err := rc.Predict(context.Background(), hotReading)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOverheating, result.Prediction)
	assert.Equal(t, int32(3), stub.calls.Load())
	assert.Equal(t, resilience.StateClosed, rc.CircuitState())
}

func TestResilientClient_RejectedIsNotRetried(t *testing.T) {
	stub := &stubClient{results: []error{ErrRejected, ErrRejected, ErrRejected}}
	rc := NewResilientClient(ResilientClientConfig{
		Client:        stub,
		MaxFailures:   1,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	for i := 0; i < 3; i++ {
		_, err := rc.Predict(context.Background(), models.SensorReading{})
		assert.ErrorIs(t, err, ErrRejected)
	}
	assert.Equal(t, int32(3), stub.calls.Load())
	assert.Equal(t, resilience.StateClosed, rc.CircuitState())
}

func TestResilientClient_OpensCircuit(t *testing.T) {
	stub := &stubClient{results: []error{ErrRequestFailed, ErrRequestFailed, ErrRequestFailed, ErrRequestFailed}}

	transitions := make(chan resilience.State, 4)
	rc := NewResilientClient(ResilientClientConfig{
		Client:        stub,
		MaxFailures:   2,
		Timeout:       time.Hour,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		OnStateChange: func(name string, from, to resilience.State) {
			transitions <- to
		},
	})

	_, err := rc.Predict(context.Background(), models.SensorReading{Voltage: 1})
	assert.ErrorIs(t, err, ErrRequestFailed)
	_, err = rc.Predict(context.Background(), models.SensorReading{Voltage: 1})
	assert.ErrorIs(t, err, ErrRequestFailed)

	_, err = rc.Predict(context.Background(), models.SensorReading{Voltage: 1})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(4), stub.calls.Load())
	select {
	case to := <-transitions:
		assert.Equal(t, resilience.StateOpen, to)
	case <-time.After(time.Second):
		t.Fatal("no state change observed")
	}
}

func TestDefaultScenarios_MatchClassifier(t *testing.T) {
	for _, sc := range DefaultScenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			result := classifier.Classify(sc.Reading)
			assert.Equal(t, sc.ExpectedFault, result.Prediction)
			assert.Equal(t, sc.ExpectedSeverity, result.FaultDetails.Severity)
		})
	}
}

func TestRun_AgainstServer(t *testing.T) {
	srv := classifyingServer(t)
	client := NewHTTPClient(HTTPClientConfig{Endpoint: srv.URL})

	report := Run(context.Background(), client, DefaultScenarios())
	assert.True(t, report.OK())
	assert.Equal(t, len(DefaultScenarios()), report.Passed)
	assert.Zero(t, report.Failed)
	for _, o := range report.Outcomes {
		assert.True(t, o.Passed(), o.Scenario.Name)
	}
}

func TestRun_ReportsMismatchAndErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(classifier.Classify(hotReading))
	}))
	defer srv.Close()

	scenarios := DefaultScenarios()[:3]
	report := Run(context.Background(), NewHTTPClient(HTTPClientConfig{Endpoint: srv.URL}), scenarios)

	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 2, report.Failed)
	assert.ErrorIs(t, report.Outcomes[0].Err, ErrRequestFailed)
	assert.NoError(t, report.Outcomes[1].Err)
	assert.False(t, report.Outcomes[1].Passed())
	assert.True(t, report.Outcomes[2].Passed())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubClient{}
	report := Run(ctx, stub, DefaultScenarios())
	assert.Equal(t, len(DefaultScenarios()), report.Failed)
	assert.Zero(t, stub.calls.Load())
}
