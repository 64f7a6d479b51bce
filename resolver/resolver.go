/*
Package resolver merges the route trees of the mounted sites and the page
overlay into a single lookup structure.

Resolution of a path happens in the following order:

1. The path is looked up as an exact key in every site tree, in mount order.
If a node is found and its route has no variables, it is the result. If its
route has variables, the path is byte-identical to a parametrized pattern,
which is never a legitimate request, and the result is not found, without
trying the next steps.

2. The path is matched against the routes of every site tree, descending
from the roots. The deepest matching node wins; between nodes of the same
depth, the site mounted first wins.

3. If no declared route matches, but a page is registered for the path, the
result is the page. Its view is the view of the closest ancestor path that
matches a declared route, looked up only when it is first used.

A Resolver is immutable and safe for concurrent use.
*/
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zalando/sitetree/nrt"
	"github.com/zalando/sitetree/pages"
	"github.com/zalando/sitetree/route"
)

// ErrNotFound is matched by the errors returned when a path doesn't resolve.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned when a path doesn't resolve. Strict is set when
// the path collided with the key of a parametrized route.
type NotFoundError struct {
	Path   string
	Strict bool
}

func (err *NotFoundError) Error() string {
	if err.Strict {
		return fmt.Sprintf("not found: %s (collides with a parametrized route)", err.Path)
	}

	return fmt.Sprintf("not found: %s", err.Path)
}

func (err *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Site is a named route tree.
type Site struct {
	Name string
	Tree *nrt.Tree
}

// Resolver resolves paths against the mounted sites and the page overlay.
type Resolver struct {
	sites   []Site
	overlay *Overlay
}

// Resolved is the result of a resolution.
type Resolved struct {
	// Path is the resolved path, always with a leading slash.
	Path string

	// Site is the name of the site of the matched node. Empty for pages
	// without a declared route.
	Site string

	// Page is the page registered for the path, if any.
	Page *pages.Page

	tree *nrt.Tree
	node int
	view any
	args route.Values

	once     sync.Once
	resolver *Resolver
}

// Link is an entry of the navigation helpers.
type Link struct {
	Path string
	View any
	Page *pages.Page
}

// New creates a resolver. The order of the sites defines their priority.
func New(sites []Site, overlay *Overlay) *Resolver {
	s := make([]Site, len(sites))
	copy(s, sites)
	return &Resolver{sites: s, overlay: overlay}
}

// Sites returns the mounted sites in mount order.
func (r *Resolver) Sites() []Site { return r.sites }

// Overlay returns the page overlay, possibly nil.
func (r *Resolver) Overlay() *Overlay { return r.overlay }

// Len returns the total number of declared routes.
func (r *Resolver) Len() int {
	var n int
	for _, s := range r.sites {
		n += s.Tree.Len()
	}

	return n
}

func normalize(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}

	return path
}

func (r *Resolver) newResolved(path string, s Site, i int, args route.Values) *Resolved {
	return &Resolved{
		Path: path,
		Site: s.Name,
		tree: s.Tree,
		node: i,
		view: s.Tree.Node(i).View,
		args: args,
	}
}

func (r *Resolver) resolveDeclared(path string) (*Resolved, error) {
	for _, s := range r.sites {
		i, ok := s.Tree.Lookup(path)
		if !ok {
			continue
		}

		if s.Tree.Node(i).Route.HasVariables() {
			return nil, &NotFoundError{Path: path, Strict: true}
		}

		return r.newResolved(path, s, i, route.Values{}), nil
	}

	var (
		best      *Resolved
		bestLevel = -1
	)

	for _, s := range r.sites {
		i, v, ok := s.Tree.Match(path)
		if !ok {
			continue
		}

		if l := s.Tree.Node(i).Level; l > bestLevel {
			best, bestLevel = r.newResolved(path, s, i, v), l
		}
	}

	return best, nil
}

// Resolve finds the view and the variable values for path. It returns an
// error matching ErrNotFound when the path doesn't resolve.
func (r *Resolver) Resolve(path string) (*Resolved, error) {
	path = normalize(path)
	res, err := r.resolveDeclared(path)
	if err != nil {
		return nil, err
	}

	page := r.overlay.Get(path)
	if res != nil {
		res.Page = page
		return res, nil
	}

	if page != nil {
		return &Resolved{Path: path, Page: page, node: -1, resolver: r}, nil
	}

	return nil, &NotFoundError{Path: path}
}

// fallback finds the closest ancestor path matching a declared route.
func (r *Resolver) fallback(path string) *Resolved {
	for p := parentPath(path); p != ""; p = parentPath(p) {
		if res, err := r.resolveDeclared(p); err == nil && res != nil {
			return res
		}
	}

	return nil
}

func (res *Resolved) init() {
	if res.resolver == nil {
		return
	}

	res.once.Do(func() {
		if f := res.resolver.fallback(res.Path); f != nil {
			res.view = f.view
			res.args = f.args
			res.Site = f.Site
		} else {
			res.args = route.Values{}
		}
	})
}

// View returns the view of the matched node. For pages without a declared
// route, it is the view of the closest declared ancestor, or nil if there
// is none.
func (res *Resolved) View() any {
	res.init()
	return res.view
}

// Args returns the typed variable values. For pages without a declared
// route, they are the values of the closest declared ancestor.
func (res *Resolved) Args() route.Values {
	res.init()
	return res.args
}

// IsPage tells whether the path resolved only to a page.
func (res *Resolved) IsPage() bool { return res.node < 0 }

// Route returns the route of the matched node, or nil for pages without a
// declared route.
func (res *Resolved) Route() *route.Route {
	if res.node < 0 {
		return nil
	}

	return res.tree.Node(res.node).Route
}

func (r *Resolver) link(n *nrt.Node, args route.Values) (Link, bool) {
	u, err := n.Route.BuildPath(args)
	if err != nil {
		return Link{}, false
	}

	return Link{Path: u, View: n.View, Page: r.overlay.Get(u)}, true
}

// Children returns the nodes one level below the node resolved for path,
// and the pages directly below it. For paths that resolve only to a page,
// the declared routes are scanned for nodes one level deeper whose prefix
// matches the path.
func (r *Resolver) Children(path string) ([]Link, error) {
	res, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}

	var links []Link
	seen := make(map[string]bool)
	add := func(l Link) {
		if !seen[l.Path] {
			seen[l.Path] = true
			links = append(links, l)
		}
	}

	if !res.IsPage() {
		for _, c := range res.tree.Node(res.node).Children {
			if l, ok := r.link(res.tree.Node(c), res.args); ok {
				add(l)
			}
		}
	} else {
		level := pathLevel(res.Path)
		for _, s := range r.sites {
			s.Tree.Walk(func(_ int, n *nrt.Node) bool {
				if n.Level != level+1 {
					return true
				}

				v, ok := n.Route.Prefix(level).Match(res.Path)
				if !ok {
					return true
				}

				if _, partial := v.Remaining(); partial {
					return true
				}

				if l, ok := r.link(n, v); ok {
					add(l)
				}

				return true
			})
		}
	}

	for _, p := range r.overlay.children(res.Path) {
		add(Link{Path: p, View: res.View(), Page: r.overlay.Get(p)})
	}

	return links, nil
}

// Ancestors returns the ancestors of the node resolved for path, root
// first.
func (r *Resolver) Ancestors(path string) ([]Link, error) {
	res, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}

	var links []Link
	if !res.IsPage() {
		for _, a := range res.tree.Ancestors(res.node) {
			if l, ok := r.link(res.tree.Node(a), res.args); ok {
				links = append(links, l)
			}
		}

		return links, nil
	}

	for p := parentPath(res.Path); p != ""; p = parentPath(p) {
		if a, err := r.Resolve(p); err == nil {
			links = append(links, Link{Path: a.Path, View: a.View(), Page: a.Page})
		}
	}

	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}

	return links, nil
}
