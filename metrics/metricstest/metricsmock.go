/*
Package metricstest provides an in-memory metrics collector for tests.
*/
package metricstest

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/zalando/sitetree/metrics"
)

// Keys of the collected values.
const (
	KeyLookup         = "lookup"
	KeyNotFound       = "notfound"
	KeyNotFoundStrict = "notfound.strict"
	KeyRebuild        = "rebuild.%s"
	KeyRoutes         = "routes"
	KeyPages          = "pages"
	KeySuspension     = "suspension"
	KeyResponse       = "response.%d.%s"
)

// MockMetrics implements metrics.Metrics, storing the values in memory.
type MockMetrics struct {
	mu sync.Mutex

	counters map[string]int64
	gauges   map[string]float64
	measures map[string][]time.Duration
	Now      time.Time
}

var _ metrics.Metrics = (*MockMetrics)(nil)

func (m *MockMetrics) WithCounters(f func(counters map[string]int64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}

	f(m.counters)
}

func (m *MockMetrics) WithMeasures(f func(measures map[string][]time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.measures == nil {
		m.measures = make(map[string][]time.Duration)
	}

	f(m.measures)
}

func (m *MockMetrics) WithGauges(f func(map[string]float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gauges == nil {
		m.gauges = make(map[string]float64)
	}

	f(m.gauges)
}

func (m *MockMetrics) since(start time.Time) time.Duration {
	now := m.Now
	if now.IsZero() {
		now = time.Now()
	}

	return now.Sub(start)
}

func (m *MockMetrics) measure(key string, start time.Time) {
	d := m.since(start)
	m.WithMeasures(func(measures map[string][]time.Duration) {
		measures[key] = append(measures[key], d)
	})
}

func (m *MockMetrics) inc(key string) {
	m.WithCounters(func(counters map[string]int64) {
		counters[key]++
	})
}

func (m *MockMetrics) MeasureLookup(start time.Time) {
	m.measure(KeyLookup, start)
}

func (m *MockMetrics) IncNotFound(strict bool) {
	if strict {
		m.inc(KeyNotFoundStrict)
		return
	}

	m.inc(KeyNotFound)
}

func (m *MockMetrics) IncRebuild(outcome string) {
	m.inc(fmt.Sprintf(KeyRebuild, outcome))
}

func (m *MockMetrics) UpdateRoutes(n int) {
	m.WithGauges(func(g map[string]float64) { g[KeyRoutes] = float64(n) })
}

func (m *MockMetrics) UpdatePages(n int) {
	m.WithGauges(func(g map[string]float64) { g[KeyPages] = float64(n) })
}

func (m *MockMetrics) IncSuspension() {
	m.inc(KeySuspension)
}

func (m *MockMetrics) MeasureResponse(code int, endpoint string, start time.Time) {
	m.measure(fmt.Sprintf(KeyResponse, code, endpoint), start)
}

func (*MockMetrics) RegisterHandler(string, *http.ServeMux) {}

// Counter returns the value of a counter.
func (m *MockMetrics) Counter(key string) (v int64, ok bool) {
	m.WithCounters(func(c map[string]int64) {
		v, ok = c[key]
	})

	return
}

// Gauge returns the value of a gauge.
func (m *MockMetrics) Gauge(key string) (v float64, ok bool) {
	m.WithGauges(func(g map[string]float64) {
		v, ok = g[key]
	})

	return
}

// Measure returns the durations measured under a key.
func (m *MockMetrics) Measure(key string) (d []time.Duration, ok bool) {
	m.WithMeasures(func(measures map[string][]time.Duration) {
		d, ok = measures[key]
	})

	return
}
