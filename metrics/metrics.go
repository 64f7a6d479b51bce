package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rebuild outcomes.
const (
	RebuildSuccess = "success"
	RebuildFailure = "failure"
)

// Metrics is the interface of the metrics collectors.
type Metrics interface {
	MeasureLookup(start time.Time)
	IncNotFound(strict bool)
	IncRebuild(outcome string)
	UpdateRoutes(n int)
	UpdatePages(n int)
	IncSuspension()
	MeasureResponse(code int, endpoint string, start time.Time)
	RegisterHandler(path string, mux *http.ServeMux)
}

// Options for initializing metrics collection.
type Options struct {

	// Common prefix of the metric names. Defaults to sitetree.
	Prefix string

	// Buckets of the histograms. Defaults to prometheus.DefBuckets.
	HistogramBuckets []float64

	// If set, the Go runtime and process collectors are registered.
	EnableRuntimeMetrics bool

	// Registry to use. When nil, a new registry is created.
	PrometheusRegistry *prometheus.Registry
}

// Void is a collector that doesn't collect anything.
type Void struct{}

func (Void) MeasureLookup(time.Time)                {}
func (Void) IncNotFound(bool)                       {}
func (Void) IncRebuild(string)                      {}
func (Void) UpdateRoutes(int)                       {}
func (Void) UpdatePages(int)                        {}
func (Void) IncSuspension()                         {}
func (Void) MeasureResponse(int, string, time.Time) {}
func (Void) RegisterHandler(string, *http.ServeMux) {}

// Default is used by the components that are not given a collector.
var Default Metrics = Void{}
