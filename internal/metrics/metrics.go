package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

const namespace = "faultpredictor"

// Metrics is the process-wide registry exposed at /metrics.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	predictionsTotal map[models.FaultCategory]int64
	highRiskTotal    map[models.FaultCategory]int64
	validationErrors map[string]int64 // field -> count
	httpRequests     map[string]int64 // status class -> count

	// Gauges
	circuitBreakerState map[string]int // 0=closed, 1=open, 2=half-open
	wsClients           int

	// last observed values only
	classifyLatency time.Duration
}

var (
	instance *Metrics
	once     sync.Once
)

func New() *Metrics {
	return &Metrics{
		predictionsTotal:    make(map[models.FaultCategory]int64),
		highRiskTotal:       make(map[models.FaultCategory]int64),
		validationErrors:    make(map[string]int64),
		httpRequests:        make(map[string]int64),
		circuitBreakerState: make(map[string]int),
	}
}

func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func (m *Metrics) IncPrediction(category models.FaultCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionsTotal[category]++
}

func (m *Metrics) IncHighRisk(category models.FaultCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highRiskTotal[category]++
}

// IncValidationError counts a rejected request. An empty field counts as
// a malformed body.
func (m *Metrics) IncValidationError(field string) {
	if field == "" {
		field = "body"
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationErrors[field]++
}

func (m *Metrics) IncHTTPRequest(status int) {
	class := strconv.Itoa(status/100) + "xx"
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpRequests[class]++
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitBreakerState[name] = state
}

func (m *Metrics) SetWebSocketClients(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wsClients = n
}

func (m *Metrics) SetClassifyLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifyLatency = d
}

func (m *Metrics) PredictionCount(category models.FaultCategory) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predictionsTotal[category]
}

func (m *Metrics) HighRiskCount(category models.FaultCategory) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.highRiskTotal[category]
}

func (m *Metrics) ValidationErrorCount(field string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validationErrors[field]
}

// WriteTo renders the registry in the Prometheus text format with series
// sorted for stable output.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	for _, c := range models.FaultCategories() {
		writeMetric(&b, "predictions_total", map[string]string{"category": string(c)}, float64(m.predictionsTotal[c]))
	}
	writeMetric(&b, "predictions_total", map[string]string{"category": string(models.CategorySystemNormal)},
		float64(m.predictionsTotal[models.CategorySystemNormal]))

	for _, c := range sortedKeys(m.highRiskTotal) {
		writeMetric(&b, "high_risk_total", map[string]string{"category": c}, float64(m.highRiskTotal[models.FaultCategory(c)]))
	}

	for _, field := range sortedKeys(m.validationErrors) {
		writeMetric(&b, "validation_errors_total", map[string]string{"field": field}, float64(m.validationErrors[field]))
	}

	for _, class := range sortedKeys(m.httpRequests) {
		writeMetric(&b, "http_requests_total", map[string]string{"code": class}, float64(m.httpRequests[class]))
	}

	for _, name := range sortedKeys(m.circuitBreakerState) {
		writeMetric(&b, "circuit_breaker_state", map[string]string{"name": name}, float64(m.circuitBreakerState[name]))
	}

	writeMetric(&b, "websocket_clients", nil, float64(m.wsClients))
	writeMetric(&b, "classify_latency_us", nil, float64(m.classifyLatency.Microseconds()))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = m.WriteTo(w)
	})
}

func writeMetric(b *strings.Builder, name string, labels map[string]string, value float64) {
	b.WriteString(namespace)
	b.WriteByte('_')
	b.WriteString(name)
	if len(labels) > 0 {
		keys := sortedKeys(labels)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%q", k, labels[k]))
		}
		b.WriteString("{" + strings.Join(pairs, ",") + "}")
	}
	b.WriteString(" " + strconv.FormatFloat(value, 'f', -1, 64) + "\n")
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
