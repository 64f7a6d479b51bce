package sitetree

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/zalando/sitetree/compose"
	"github.com/zalando/sitetree/logging"
	"github.com/zalando/sitetree/metrics"
	"github.com/zalando/sitetree/resolver"
	"github.com/zalando/sitetree/site"
)

// Resolver provides the request of a path. It is implemented by
// routing.Routing.
type Resolver interface {
	Resolve(path string, hr *http.Request) (*site.Request, error)
}

// HandlerOptions for NewHandler.
type HandlerOptions struct {

	// Resolver of the requested paths. Required.
	Resolver Resolver

	// Maximum time of waiting for the deferred parts of a response.
	// Defaults to 30 seconds.
	ComposeTimeout time.Duration

	Metrics metrics.Metrics
	Log     logging.Logger
}

type handler struct {
	resolver       Resolver
	composeTimeout time.Duration
	metrics        metrics.Metrics
	log            logging.Logger
}

const (
	defaultComposeTimeout = 30 * time.Second

	// nginx convention for the requests canceled by the client
	statusClientClosedRequest = 499
)

// NewHandler creates the HTTP handler serving the mounted sites. It
// resolves the request path, checks the permission of the view, renders the
// view and waits for the deferred parts of the response.
func NewHandler(o HandlerOptions) http.Handler {
	h := &handler{
		resolver:       o.Resolver,
		composeTimeout: o.ComposeTimeout,
		metrics:        o.Metrics,
		log:            o.Log,
	}

	if h.composeTimeout <= 0 {
		h.composeTimeout = defaultComposeTimeout
	}

	if h.metrics == nil {
		h.metrics = metrics.Default
	}

	if h.log == nil {
		h.log = logging.New()
	}

	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	code, endpoint := h.serve(w, r)
	h.metrics.MeasureResponse(code, endpoint, start)
}

func (h *handler) fail(w http.ResponseWriter, code int) int {
	http.Error(w, http.StatusText(code), code)
	return code
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request) (int, string) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		return h.fail(w, http.StatusMethodNotAllowed), ""
	}

	req, err := h.resolver.Resolve(r.URL.Path, r)
	if errors.Is(err, resolver.ErrNotFound) {
		return h.fail(w, http.StatusNotFound), ""
	} else if err != nil {
		h.log.Errorf("failed to resolve %s: %v", r.URL.Path, err)
		return h.fail(w, http.StatusInternalServerError), ""
	}

	// a page without a declared ancestor has no view
	if req.Endpoint == nil {
		return h.fail(w, http.StatusNotFound), ""
	}

	endpoint := req.Endpoint.QualifiedName()
	logging.SetEndpoint(r.Context(), endpoint)

	ctx, cancel := context.WithTimeout(r.Context(), h.composeTimeout)
	defer cancel()

	if !req.Endpoint.View.Permitted(ctx, req) {
		return h.fail(w, http.StatusForbidden), endpoint
	}

	host := compose.Host{OnSuspend: func(compose.Deferred) { h.metrics.IncSuspension() }}
	v, err := host.Wait(ctx, req.Endpoint.View.Render(ctx, req))
	if errors.Is(err, context.DeadlineExceeded) {
		h.log.Errorf("timeout while composing %s: %v", r.URL.Path, err)
		return h.fail(w, http.StatusGatewayTimeout), endpoint
	} else if err != nil {
		w.WriteHeader(statusClientClosedRequest)
		return statusClientClosedRequest, endpoint
	}

	if err := compose.FirstFailure(v); err != nil {
		h.log.Errorf("failed to compose %s: %v", r.URL.Path, err)
		return h.fail(w, http.StatusInternalServerError), endpoint
	}

	body := compose.Flatten(v)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		if _, err := io.WriteString(w, body); err != nil {
			h.log.Debugf("failed to write response of %s: %v", r.URL.Path, err)
		}
	}

	return http.StatusOK, endpoint
}
