/*
Package routing keeps the resolver of the sitetree up to date.

The resolver is compiled from the applications mounted in a site.Registry
and from the pages provided by one or more page clients. The pages are
received from the clients the same way for each of them: first a full
load, retried with exponential backoff until it succeeds, then the
updates, polled at a fixed interval or earlier when the client signals a
change. When receiving an update fails, the client is loaded fully again.

Every received change creates a brand-new resolver, swapped in
atomically. The requests being served keep the resolver they started
with. When a rebuild fails, the error is logged and the previous resolver
stays in place.
*/
package routing

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zalando/sitetree/logging"
	"github.com/zalando/sitetree/metrics"
	"github.com/zalando/sitetree/pages"
	"github.com/zalando/sitetree/resolver"
	"github.com/zalando/sitetree/site"
)

const defaultPollTimeout = 3 * time.Second

// Options for New.
type Options struct {

	// Registry of the mounted applications. Required.
	Registry *site.Registry

	// Clients providing the pages.
	Clients []pages.Client

	// Interval of polling the clients for updates. Clients implementing
	// pages.Notifier can trigger the polling earlier.
	PollTimeout time.Duration

	// Initial and maximum interval of retrying the full loads. The
	// defaults of the exponential backoff are used when not set.
	InitialRetryInterval time.Duration
	MaxRetryInterval     time.Duration

	// Metrics collector. Defaults to metrics.Default.
	Metrics metrics.Metrics

	// Logger. Defaults to a logrus based logger.
	Log logging.Logger
}

// Routing serves the current resolver.
type Routing struct {
	options   Options
	log       logging.Logger
	metrics   metrics.Metrics
	current   atomic.Pointer[site.Table]
	firstLoad chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New compiles the registered applications without pages, and starts
// receiving the pages from the clients. It fails when the applications
// cannot be compiled.
func New(o Options) (*Routing, error) {
	if o.Registry == nil {
		return nil, errors.New("routing: missing registry")
	}

	if o.PollTimeout <= 0 {
		o.PollTimeout = defaultPollTimeout
	}

	r := &Routing{
		options:   o,
		log:       o.Log,
		metrics:   o.Metrics,
		firstLoad: make(chan struct{}),
	}

	if r.log == nil {
		r.log = logging.New().WithFields(map[string]any{"component": "routing"})
	}

	if r.metrics == nil {
		r.metrics = metrics.Default
	}

	t, err := o.Registry.Build(nil)
	if err != nil {
		return nil, err
	}

	r.store(t)
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.receive(ctx)
	}()

	return r, nil
}

func (r *Routing) store(t *site.Table) {
	r.current.Store(t)
	r.metrics.UpdateRoutes(t.Resolver.Len())
	r.metrics.UpdatePages(t.Resolver.Overlay().Len())
}

func (r *Routing) receive(ctx context.Context) {
	in := make(chan *incomingData)
	for i, c := range r.options.Clients {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.receiveFromClient(ctx, i, c, in)
		}()
	}

	defsByClient := make([]pageDefs, len(r.options.Clients))
	initialized := make([]bool, len(r.options.Clients))
	pending := len(r.options.Clients)
	if pending == 0 {
		close(r.firstLoad)
	}

	for {
		var incoming *incomingData
		select {
		case incoming = <-in:
		case <-ctx.Done():
			return
		}

		defsByClient[incoming.client] = applyIncoming(defsByClient[incoming.client], incoming)
		r.log.Debugf("received %s from client %d", incoming.typ, incoming.client)
		r.rebuild(mergeDefs(defsByClient))

		if incoming.typ == incomingReset && !initialized[incoming.client] {
			initialized[incoming.client] = true
			pending--
			if pending == 0 {
				close(r.firstLoad)
			}
		}
	}
}

func (r *Routing) rebuild(ps []*pages.Page) {
	t, err := r.options.Registry.Build(ps)
	if err != nil {
		r.metrics.IncRebuild(metrics.RebuildFailure)
		r.log.Errorf("failed to rebuild resolver, keeping the previous one: %v", err)
		return
	}

	r.store(t)
	for _, s := range t.Resolver.Sites() {
		r.log.Debugf("routes of site %s:\n%s", s.Name, s.Tree)
	}

	r.metrics.IncRebuild(metrics.RebuildSuccess)
	r.log.Infof("resolver updated: %d routes, %d pages", t.Resolver.Len(), t.Resolver.Overlay().Len())
}

// Get returns the current table.
func (r *Routing) Get() *site.Table {
	return r.current.Load()
}

// Resolve resolves a path with the current table, and creates the request
// for its view.
func (r *Routing) Resolve(path string, hr *http.Request) (*site.Request, error) {
	start := time.Now()
	req, err := r.Get().Request(path, hr)
	r.metrics.MeasureLookup(start)

	var nerr *resolver.NotFoundError
	if errors.As(err, &nerr) {
		r.metrics.IncNotFound(nerr.Strict)
	}

	return req, err
}

// FirstLoad is closed when the initial pages of every client were
// received.
func (r *Routing) FirstLoad() <-chan struct{} {
	return r.firstLoad
}

// Close stops receiving updates, and waits until the receiving goroutines
// exit.
func (r *Routing) Close() {
	r.cancel()
	r.wg.Wait()
}
