/*
Package nrt builds non-recombining trees of routes.

The parent-child relationships of the routes are not declared. They are
inferred from the path prefixes of the absolute routes: a route is attached
to the closest already placed route whose path is a prefix of its own. The
routes are placed from the outside in, level by level, so every node has
exactly one parent and no two branches join. The result is a forest stored
in a single slice, nodes referencing each other by index.
*/
package nrt

import (
	"fmt"
	"sort"

	"github.com/zalando/sitetree/route"
)

// Entry is an input of the tree builder.
type Entry struct {
	Route *route.Route
	View  any
}

// Node is an element of the tree. Parent is -1 for roots.
type Node struct {
	Route    *route.Route
	View     any
	Level    int
	Parent   int
	Children []int
}

// Tree is an immutable forest of routes.
type Tree struct {
	nodes  []Node
	byPath map[string]int
	roots  []int
}

// OrphanRouteError is returned when a route below the first level has no
// placed ancestor.
type OrphanRouteError struct {
	Path string
}

func (err *OrphanRouteError) Error() string {
	return fmt.Sprintf("orphan route %s: no ancestor route found", err.Path)
}

// DuplicateRouteError is returned when two entries have the same absolute
// route.
type DuplicateRouteError struct {
	Path string
}

func (err *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s", err.Path)
}

// Build creates a tree from entries. The order of the entries matters only
// for the order of the roots and the children.
func Build(entries []Entry) (*Tree, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		p := e.Route.Path()
		if seen[p] {
			return nil, &DuplicateRouteError{Path: p}
		}

		seen[p] = true
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Route.Level() < sorted[j].Route.Level()
	})

	t := &Tree{
		nodes:  make([]Node, 0, len(sorted)),
		byPath: make(map[string]int, len(sorted)),
	}

	if len(sorted) == 0 {
		return t, nil
	}

	minLevel := sorted[0].Route.Level()
	for _, e := range sorted {
		n := Node{
			Route:  e.Route,
			View:   e.View,
			Level:  e.Route.Level(),
			Parent: -1,
		}

		if n.Level > minLevel {
			n.Parent = t.findAncestor(e.Route)
			if n.Parent < 0 && n.Level > 1 {
				return nil, &OrphanRouteError{Path: e.Route.Path()}
			}
		}

		i := len(t.nodes)
		t.nodes = append(t.nodes, n)
		t.byPath[e.Route.Path()] = i
		if n.Parent < 0 {
			t.roots = append(t.roots, i)
		} else {
			p := &t.nodes[n.Parent]
			p.Children = append(p.Children, i)
		}
	}

	return t, nil
}

func (t *Tree) findAncestor(r *route.Route) int {
	for p := r.Parent(); p != nil; p = p.Parent() {
		if i, ok := t.byPath[p.Path()]; ok {
			return i
		}
	}

	return -1
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Roots returns the indexes of the nodes without a parent.
func (t *Tree) Roots() []int { return t.roots }

// Lookup returns the index of the node whose canonical route path equals
// path.
func (t *Tree) Lookup(path string) (int, bool) {
	i, ok := t.byPath[path]
	return i, ok
}

// Ancestors returns the indexes of the ancestors of node i, root first.
func (t *Tree) Ancestors(i int) []int {
	var a []int
	for p := t.nodes[i].Parent; p >= 0; p = t.nodes[p].Parent {
		a = append(a, p)
	}

	for l, r := 0, len(a)-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}

	return a
}

// Walk visits the nodes depth first, starting from the roots. It stops when
// f returns false.
func (t *Tree) Walk(f func(i int, n *Node) bool) {
	var walk func([]int) bool
	walk = func(indexes []int) bool {
		for _, i := range indexes {
			if !f(i, &t.nodes[i]) || !walk(t.nodes[i].Children) {
				return false
			}
		}

		return true
	}

	walk(t.roots)
}

// Match finds the node matching path, descending from the roots. Partial
// matches of non-leaf nodes are continued in their children. The returned
// values don't contain the route.RemainingKey entry.
func (t *Tree) Match(path string) (int, route.Values, bool) {
	return t.match(t.roots, path)
}

func (t *Tree) match(indexes []int, path string) (int, route.Values, bool) {
	for _, i := range indexes {
		v, ok := t.nodes[i].Route.Match(path)
		if !ok {
			continue
		}

		if _, partial := v.Remaining(); !partial {
			return i, v, true
		}

		if j, vj, ok := t.match(t.nodes[i].Children, path); ok {
			return j, vj, true
		}
	}

	return -1, nil, false
}
