package pagesfile

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/zalando/sitetree/pages"
)

type watchResponse struct {
	pages       []*pages.Page
	deletedURLs []string
	err         error
}

// WatchClient implements a page client with file watching. Use the Watch
// function to initialize instances of it.
type WatchClient struct {
	fileName   string
	pages      map[string]*pages.Page
	getAll     chan (chan<- watchResponse)
	getUpdates chan (chan<- watchResponse)
	notify     chan struct{}
	watcher    *fsnotify.Watcher
	quit       chan struct{}
}

// Watch creates a page client with file watching. Watch doesn't follow file
// system nodes, it always reads from the file identified by the initially
// provided file name. Changes of the file are signaled on the Notify
// channel. When the file system notifications are not available, the
// client works without them.
func Watch(name string) *WatchClient {
	c := &WatchClient{
		fileName:   filepath.Clean(name),
		getAll:     make(chan (chan<- watchResponse)),
		getUpdates: make(chan (chan<- watchResponse)),
		notify:     make(chan struct{}, 1),
		quit:       make(chan struct{}),
	}

	w, err := fsnotify.NewWatcher()
	if err == nil {
		// the directory is watched, to see the file replaced by renames
		err = w.Add(filepath.Dir(c.fileName))
		if err != nil {
			w.Close()
		}
	}

	if err != nil {
		log.Warnf("Page file notifications not available for %s: %v", name, err)
	} else {
		c.watcher = w
	}

	go c.watch()
	return c
}

func mapPages(ps []*pages.Page) map[string]*pages.Page {
	m := make(map[string]*pages.Page)
	for _, p := range ps {
		m[p.URL] = p
	}

	return m
}

func (c *WatchClient) diffStorePages(ps []*pages.Page) (upsert []*pages.Page, deletedURLs []string) {
	for _, p := range ps {
		if !reflect.DeepEqual(p, c.pages[p.URL]) {
			upsert = append(upsert, p)
		}
	}

	m := mapPages(ps)
	for url := range c.pages {
		if _, keep := m[url]; !keep {
			deletedURLs = append(deletedURLs, url)
		}
	}

	c.pages = m
	return
}

func (c *WatchClient) deleteAllURLs() []string {
	var urls []string
	for url := range c.pages {
		urls = append(urls, url)
	}

	c.pages = nil
	return urls
}

func (c *WatchClient) loadAll() watchResponse {
	ps, err := Open(c.fileName)
	if err != nil {
		return watchResponse{err: err}
	}

	c.pages = mapPages(ps)
	return watchResponse{pages: ps}
}

func (c *WatchClient) loadUpdates() watchResponse {
	ps, err := Open(c.fileName)
	if err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) {
			return watchResponse{deletedURLs: c.deleteAllURLs()}
		}

		return watchResponse{err: err}
	}

	upsert, del := c.diffStorePages(ps)
	return watchResponse{pages: upsert, deletedURLs: del}
}

func (c *WatchClient) signal() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *WatchClient) watch() {
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)

	if c.watcher != nil {
		events, errs = c.watcher.Events, c.watcher.Errors
	}

	for {
		select {
		case req := <-c.getAll:
			req <- c.loadAll()
		case req := <-c.getUpdates:
			req <- c.loadUpdates()
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}

			if filepath.Clean(e.Name) == c.fileName && !e.Has(fsnotify.Chmod) {
				c.signal()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}

			log.Errorf("Error while watching page file %s: %v", c.fileName, err)
		case <-c.quit:
			return
		}
	}
}

// LoadAll returns the parsed pages found in the file.
func (c *WatchClient) LoadAll() ([]*pages.Page, error) {
	req := make(chan watchResponse)
	c.getAll <- req
	rsp := <-req
	return rsp.pages, rsp.err
}

// LoadUpdate returns differential updates when the watched file has
// changed. When the file was removed, all the pages are reported deleted.
func (c *WatchClient) LoadUpdate() ([]*pages.Page, []string, error) {
	req := make(chan watchResponse)
	c.getUpdates <- req
	rsp := <-req
	return rsp.pages, rsp.deletedURLs, rsp.err
}

// Notify signals that the file has changed.
func (c *WatchClient) Notify() <-chan struct{} { return c.notify }

// Close stops watching the configured file and providing updates.
func (c *WatchClient) Close() {
	close(c.quit)
	if c.watcher != nil {
		c.watcher.Close()
	}
}
