package metrics

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	promNamespace         = "sitetree"
	promResolveSubsystem  = "resolve"
	promRoutingSubsystem  = "routing"
	promComposeSubsystem  = "compose"
	promResponseSubsystem = "response"
)

// Prometheus implements the prometheus metrics backend.
type Prometheus struct {
	lookupM      prometheus.Histogram
	notFoundM    *prometheus.CounterVec
	rebuildM     *prometheus.CounterVec
	routesM      prometheus.Gauge
	pagesM       prometheus.Gauge
	suspensionsM prometheus.Counter
	responseM    *prometheus.HistogramVec

	opts     Options
	registry *prometheus.Registry
	handler  http.Handler
}

// NewPrometheus returns a new Prometheus metric backend.
func NewPrometheus(opts Options) *Prometheus {
	namespace := promNamespace
	if opts.Prefix != "" {
		namespace = strings.TrimSuffix(opts.Prefix, ".")
	}

	if len(opts.HistogramBuckets) == 0 {
		opts.HistogramBuckets = prometheus.DefBuckets
	}

	p := &Prometheus{
		lookupM: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: promResolveSubsystem,
			Name:      "lookup_duration_seconds",
			Help:      "Duration in seconds of a path resolution.",
			Buckets:   opts.HistogramBuckets,
		}),
		notFoundM: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promResolveSubsystem,
			Name:      "not_found_total",
			Help:      "The total of paths that didn't resolve.",
		}, []string{"strict"}),
		rebuildM: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promRoutingSubsystem,
			Name:      "rebuild_total",
			Help:      "The total of resolver rebuilds by outcome.",
		}, []string{"outcome"}),
		routesM: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: promRoutingSubsystem,
			Name:      "routes",
			Help:      "The number of declared routes of the current resolver.",
		}),
		pagesM: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: promRoutingSubsystem,
			Name:      "pages",
			Help:      "The number of pages of the current resolver.",
		}),
		suspensionsM: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: promComposeSubsystem,
			Name:      "suspensions_total",
			Help:      "The total of times a composition waited for a pending value.",
		}),
		responseM: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: promResponseSubsystem,
			Name:      "duration_seconds",
			Help:      "Duration in seconds of a response.",
			Buckets:   opts.HistogramBuckets,
		}, []string{"code", "endpoint"}),

		opts:     opts,
		registry: opts.PrometheusRegistry,
	}

	if p.registry == nil {
		p.registry = prometheus.NewRegistry()
	}

	p.registerMetrics()
	p.handler = promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
	return p
}

func (p *Prometheus) registerMetrics() {
	p.registry.MustRegister(p.lookupM)
	p.registry.MustRegister(p.notFoundM)
	p.registry.MustRegister(p.rebuildM)
	p.registry.MustRegister(p.routesM)
	p.registry.MustRegister(p.pagesM)
	p.registry.MustRegister(p.suspensionsM)
	p.registry.MustRegister(p.responseM)

	if p.opts.EnableRuntimeMetrics {
		p.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p.registry.MustRegister(collectors.NewGoCollector())
	}
}

func (p *Prometheus) sinceS(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// RegisterHandler registers the metrics endpoint on mux.
func (p *Prometheus) RegisterHandler(path string, mux *http.ServeMux) {
	mux.Handle(path, p.handler)
}

func (p *Prometheus) MeasureLookup(start time.Time) {
	p.lookupM.Observe(p.sinceS(start))
}

func (p *Prometheus) IncNotFound(strict bool) {
	p.notFoundM.WithLabelValues(fmt.Sprint(strict)).Inc()
}

func (p *Prometheus) IncRebuild(outcome string) {
	p.rebuildM.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) UpdateRoutes(n int) {
	p.routesM.Set(float64(n))
}

func (p *Prometheus) UpdatePages(n int) {
	p.pagesM.Set(float64(n))
}

func (p *Prometheus) IncSuspension() {
	p.suspensionsM.Inc()
}

func (p *Prometheus) MeasureResponse(code int, endpoint string, start time.Time) {
	p.responseM.WithLabelValues(fmt.Sprint(code), endpoint).Observe(p.sinceS(start))
}
