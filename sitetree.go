package sitetree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zalando/sitetree/logging"
	"github.com/zalando/sitetree/metrics"
	"github.com/zalando/sitetree/pages"
	"github.com/zalando/sitetree/pages/pagesfile"
	"github.com/zalando/sitetree/routing"
	"github.com/zalando/sitetree/site"
)

// Options to start the server with.
type Options struct {

	// Network address that the sites are served on.
	Address string

	// Network address of the /metrics and /health endpoints. When empty,
	// the endpoints are not served.
	SupportListener string

	// Time waiting after SIGTERM before the server is shut down, to let
	// the load balancer see it unhealthy.
	WaitForHealthcheckInterval time.Duration

	// Maximum time of waiting for the deferred parts of a response.
	ComposeTimeout time.Duration

	// Registry with the mounted sites. Required.
	Registry *site.Registry

	// Files containing the pages, watched for changes.
	PagesFiles []string

	// Additional page sources. Their pages win over the ones from the
	// files.
	PageClients []pages.Client

	// Polling interval of the page sources.
	PollTimeout time.Duration

	// Application log options. The output is a file name, by default
	// the log is written to stderr.
	ApplicationLogOutput string
	ApplicationLogLevel  string
	ApplicationLogPrefix string

	// Access log options. The output is a file name, by default the log
	// is written to stderr.
	AccessLogOutput      string
	AccessLogDisabled    bool
	AccessLogJSONEnabled bool

	// Metrics options.
	MetricsPrefix        string
	EnableRuntimeMetrics bool
	HistogramBuckets     []float64
}

// Server serves the mounted sites, and the support endpoints.
type Server struct {
	routing *routing.Routing
	metrics metrics.Metrics
	watches []*pagesfile.WatchClient
	server  *http.Server
	support *http.Server
}

func openLogOutput(name string) (io.Writer, error) {
	if name == "" {
		return nil, nil
	}

	return os.OpenFile(name, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
}

func initLog(o Options) error {
	appOut, err := openLogOutput(o.ApplicationLogOutput)
	if err != nil {
		return fmt.Errorf("failed to open application log: %w", err)
	}

	accessOut, err := openLogOutput(o.AccessLogOutput)
	if err != nil {
		return fmt.Errorf("failed to open access log: %w", err)
	}

	return logging.Init(logging.Options{
		ApplicationLogPrefix: o.ApplicationLogPrefix,
		ApplicationLogOutput: appOut,
		ApplicationLogLevel:  o.ApplicationLogLevel,
		AccessLogOutput:      accessOut,
		AccessLogDisabled:    o.AccessLogDisabled,
		AccessLogJSONEnabled: o.AccessLogJSONEnabled,
	})
}

// New creates a server. It compiles the mounted sites, and starts receiving
// the pages. It fails when the sites cannot be compiled.
func New(o Options) (*Server, error) {
	if o.Registry == nil {
		return nil, errors.New("missing registry")
	}

	s := &Server{
		metrics: metrics.NewPrometheus(metrics.Options{
			Prefix:               o.MetricsPrefix,
			HistogramBuckets:     o.HistogramBuckets,
			EnableRuntimeMetrics: o.EnableRuntimeMetrics,
		}),
	}

	var clients []pages.Client
	for _, name := range o.PagesFiles {
		w := pagesfile.Watch(name)
		s.watches = append(s.watches, w)
		clients = append(clients, w)
	}

	clients = append(clients, o.PageClients...)
	if len(clients) == 0 {
		log.Warn("no page source specified")
	}

	rt, err := routing.New(routing.Options{
		Registry:    o.Registry,
		Clients:     clients,
		PollTimeout: o.PollTimeout,
		Metrics:     s.metrics,
	})
	if err != nil {
		s.closeWatches()
		return nil, err
	}

	s.routing = rt
	s.server = &http.Server{
		Addr: o.Address,
		Handler: logging.NewHandler(NewHandler(HandlerOptions{
			Resolver:       rt,
			ComposeTimeout: o.ComposeTimeout,
			Metrics:        s.metrics,
		})),
	}

	if o.SupportListener != "" {
		mux := http.NewServeMux()
		mux.Handle("/health", s.healthHandler())
		s.metrics.RegisterHandler("/metrics", mux)
		s.support = &http.Server{Addr: o.SupportListener, Handler: mux}
	}

	return s, nil
}

func (s *Server) closeWatches() {
	for _, w := range s.watches {
		w.Close()
	}
}

// healthHandler responds 200 after the initial pages were received from
// every source, and 503 before.
func (s *Server) healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		select {
		case <-s.routing.FirstLoad():
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
}

// ServeHTTP serves the mounted sites.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// Close stops receiving the pages. It doesn't stop the listeners.
func (s *Server) Close() {
	s.routing.Close()
	s.closeWatches()
}

func listenAndServe(srv *http.Server) error {
	log.Infof("listening on %v", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Serve listens on the configured addresses until ctx is done, or one of
// the listeners fails. After ctx is done, it waits the configured interval
// before shutting down the listeners.
func (s *Server) Serve(ctx context.Context, healthcheckInterval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listenAndServe(s.server) })
	if s.support != nil {
		g.Go(func() error { return listenAndServe(s.support) })
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			log.Infof("shutting down the server in %s...", healthcheckInterval)
			time.Sleep(healthcheckInterval)
		}

		var errs []error
		if s.support != nil {
			errs = append(errs, s.support.Shutdown(context.Background()))
		}

		errs = append(errs, s.server.Shutdown(context.Background()))
		if err := errors.Join(errs...); err != nil {
			log.Error("unable to shut down the server: ", err)
		}

		log.Info("server shut down")
		return nil
	})

	return g.Wait()
}

// Run initializes the logging, creates a server, and serves the mounted
// sites until SIGTERM or SIGINT is received. It returns the error of the
// initialization, or the error of a failing listener.
func Run(o Options) error {
	if err := initLog(o); err != nil {
		return err
	}

	s, err := New(o)
	if err != nil {
		return err
	}

	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	return s.Serve(ctx, o.WaitForHealthcheckInterval)
}
