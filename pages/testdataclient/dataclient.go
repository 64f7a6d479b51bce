/*
Package testdataclient provides an in-memory page client, to feed pages
to the routing in tests.
*/
package testdataclient

import (
	"errors"
	"sort"
	"sync"

	"github.com/zalando/sitetree/pages"
)

// ErrFailing is returned by the client while it is set to fail.
var ErrFailing = errors.New("failing")

// Client is an in-memory page client, implementing pages.Client and
// pages.Notifier.
type Client struct {
	mu       sync.Mutex
	pages    map[string]*pages.Page
	upserted []*pages.Page
	deleted  []string
	failing  int
	notify   chan struct{}
}

// New creates a client with an initial set of pages.
func New(ps []*pages.Page) *Client {
	c := &Client{
		pages:  make(map[string]*pages.Page),
		notify: make(chan struct{}, 1),
	}

	for _, p := range ps {
		c.pages[p.URL] = p
	}

	return c
}

// LoadAll returns the current pages, ordered by URL.
func (c *Client) LoadAll() ([]*pages.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing > 0 {
		c.failing--
		return nil, ErrFailing
	}

	c.upserted, c.deleted = nil, nil
	ps := make([]*pages.Page, 0, len(c.pages))
	for _, p := range c.pages {
		ps = append(ps, p)
	}

	sort.Slice(ps, func(i, j int) bool { return ps[i].URL < ps[j].URL })
	return ps, nil
}

// LoadUpdate returns the changes since the previous call.
func (c *Client) LoadUpdate() ([]*pages.Page, []string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing > 0 {
		c.failing--
		return nil, nil, ErrFailing
	}

	u, d := c.upserted, c.deleted
	c.upserted, c.deleted = nil, nil
	return u, d, nil
}

// Update upserts and deletes pages, and signals the change.
func (c *Client) Update(upsert []*pages.Page, deletedURLs []string) {
	c.mu.Lock()
	for _, url := range deletedURLs {
		delete(c.pages, url)
	}

	for _, p := range upsert {
		c.pages[p.URL] = p
	}

	c.upserted = append(c.upserted, upsert...)
	c.deleted = append(c.deleted, deletedURLs...)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// FailNext makes the next n loads fail.
func (c *Client) FailNext(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = n
}

func (c *Client) Notify() <-chan struct{} { return c.notify }
