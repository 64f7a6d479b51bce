package routing

import (
	"context"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/zalando/sitetree/pages"
)

type incomingType uint

const (
	incomingReset incomingType = iota
	incomingUpdate
)

func (it incomingType) String() string {
	switch it {
	case incomingReset:
		return "reset"
	case incomingUpdate:
		return "update"
	default:
		return "unknown"
	}
}

type pageDefs map[string]*pages.Page

type incomingData struct {
	typ         incomingType
	client      int
	upserted    []*pages.Page
	deletedURLs []string
}

func (r *Routing) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if r.options.InitialRetryInterval > 0 {
		b.InitialInterval = r.options.InitialRetryInterval
	}

	if r.options.MaxRetryInterval > 0 {
		b.MaxInterval = r.options.MaxRetryInterval
	}

	return b
}

func (r *Routing) receiveInitial(ctx context.Context, index int, c pages.Client, out chan<- *incomingData) bool {
	ps, err := backoff.Retry(ctx, func() ([]*pages.Page, error) {
		return c.LoadAll()
	},
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.log.Errorf("error while receiving initial pages from client %d, retrying in %v: %v", index, next, err)
		}),
	)

	if err != nil {
		return false
	}

	select {
	case out <- &incomingData{typ: incomingReset, client: index, upserted: ps}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *Routing) receiveUpdates(ctx context.Context, index int, c pages.Client, out chan<- *incomingData) bool {
	var notify <-chan struct{}
	if n, ok := c.(pages.Notifier); ok {
		notify = n.Notify()
	}

	for {
		select {
		case <-time.After(r.options.PollTimeout):
		case <-notify:
		case <-ctx.Done():
			return false
		}

		ps, deletedURLs, err := c.LoadUpdate()
		if err != nil {
			r.log.Errorf("error while receiving page updates from client %d: %v", index, err)
			return true
		}

		if len(ps) == 0 && len(deletedURLs) == 0 {
			continue
		}

		select {
		case out <- &incomingData{typ: incomingUpdate, client: index, upserted: ps, deletedURLs: deletedURLs}:
		case <-ctx.Done():
			return false
		}
	}
}

// receiveFromClient loads the initial pages, then the updates, and starts
// over with a full load after an update failed.
func (r *Routing) receiveFromClient(ctx context.Context, index int, c pages.Client, out chan<- *incomingData) {
	for {
		if !r.receiveInitial(ctx, index, c, out) {
			return
		}

		if !r.receiveUpdates(ctx, index, c, out) {
			return
		}
	}
}

func applyIncoming(defs pageDefs, d *incomingData) pageDefs {
	if d.typ == incomingReset || defs == nil {
		defs = make(pageDefs)
	}

	if d.typ == incomingUpdate {
		for _, url := range d.deletedURLs {
			delete(defs, url)
		}
	}

	for _, p := range d.upserted {
		if p != nil {
			defs[p.URL] = p
		}
	}

	return defs
}

// mergeDefs merges the pages of all clients. When more clients provide the
// same URL, the client listed later wins. The result is ordered by URL.
func mergeDefs(defsByClient []pageDefs) []*pages.Page {
	mergeByURL := make(pageDefs)
	for _, defs := range defsByClient {
		for url, p := range defs {
			mergeByURL[url] = p
		}
	}

	all := make([]*pages.Page, 0, len(mergeByURL))
	for _, p := range mergeByURL {
		all = append(all, p)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].URL < all[j].URL })
	return all
}
