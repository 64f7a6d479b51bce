package resolver

import (
	"sort"
	"strings"

	"github.com/dimfeld/httppath"
	"github.com/zalando/sitetree/pages"
)

// Overlay maps page URLs to pages. A nil overlay has no pages.
type Overlay struct {
	pages map[string]*pages.Page
	paths []string
}

// NewOverlay creates an overlay from a set of pages. The URLs are cleaned,
// and when two pages have the same URL, the later one wins.
func NewOverlay(ps []*pages.Page) *Overlay {
	o := &Overlay{pages: make(map[string]*pages.Page, len(ps))}
	for _, p := range ps {
		if p == nil {
			continue
		}

		o.pages[httppath.Clean(p.URL)] = p
	}

	for path := range o.pages {
		o.paths = append(o.paths, path)
	}

	sort.Strings(o.paths)
	return o
}

// Get returns the page registered for path, or nil.
func (o *Overlay) Get(path string) *pages.Page {
	if o == nil {
		return nil
	}

	return o.pages[path]
}

// Len returns the number of pages.
func (o *Overlay) Len() int {
	if o == nil {
		return 0
	}

	return len(o.paths)
}

// Paths returns the cleaned page URLs in lexical order.
func (o *Overlay) Paths() []string {
	if o == nil {
		return nil
	}

	return o.paths
}

// children returns the paths of the pages one level below path.
func (o *Overlay) children(path string) []string {
	if o == nil {
		return nil
	}

	var c []string
	for _, p := range o.paths {
		if p != path && strings.HasPrefix(p, path) && parentPath(p) == path {
			c = append(c, p)
		}
	}

	return c
}

// parentPath strips the last segment of a path, keeping the result a
// non-leaf path. It returns "" for the root.
func parentPath(path string) string {
	p := strings.TrimSuffix(path, "/")
	if p == "" {
		return ""
	}

	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "/"
	}

	return p[:i+1]
}

// pathLevel returns the number of non-empty segments of a path.
func pathLevel(path string) int {
	var n int
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			n++
		}
	}

	return n
}
