/*
Package compose materializes response values that may contain deferred
parts.

A view renders a tree of values: scalars, ordered maps (Map), ordered
sequences (List) and renderables, pairs of a context and a render function
that is called once the context is fully materialized. Any element of the
tree can be a Deferred value, produced by a backend that may or may not have
the result yet.

Compose walks the tree and replaces every element with its materialized form.
When it meets a deferred value that is not ready, it stops and returns that
value as the pending handle: the first pending value wins, the siblings are
not waited for. The caller waits on the handle, and composes the same root
again. The work done by the previous calls is kept in the containers, so
render functions are never called twice, and the result is the same as if
every value had been ready at the first call.

Compose doesn't block and doesn't start goroutines. Wait is a simple host
that blocks on the Done channel of the pending handles.

Backend errors are represented by Failure values, flowing through the tree
like any other value.
*/
package compose

import "fmt"

// Deferred is a value that may not be available yet. Poll returns the value
// and true when it is available. Done is closed when it becomes available.
type Deferred interface {
	Poll() (any, bool)
	Done() <-chan struct{}
}

// Failure is a materialized backend error.
type Failure struct {
	Err error
}

func (f Failure) Error() string { return fmt.Sprintf("failure: %v", f.Err) }

func (f Failure) Unwrap() error { return f.Err }

// Map is an ordered mapping. The zero value is ready to use.
type Map struct {
	keys     []string
	values   []any
	index    map[string]int
	resolved bool
}

// NewMap creates a map from alternating keys and values.
func NewMap(kv ...any) *Map {
	m := &Map{}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(fmt.Sprint(kv[i]), kv[i+1])
	}

	return m
}

// Set sets the value of a key. New keys are appended, existing keys keep
// their position. Setting a value clears the materialized state.
func (m *Map) Set(key string, value any) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	m.resolved = false
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}

	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Get returns the current value of key.
func (m *Map) Get(key string) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.values[i], true
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return m.keys }

func (m *Map) Len() int { return len(m.keys) }

// List is an ordered sequence.
type List struct {
	items    []any
	resolved bool
}

// NewList creates a list of items.
func NewList(items ...any) *List {
	return &List{items: items}
}

// Append adds items to the list and clears the materialized state.
func (l *List) Append(items ...any) {
	l.items = append(l.items, items...)
	l.resolved = false
}

// Items returns the current items.
func (l *List) Items() []any { return l.items }

func (l *List) Len() int { return len(l.items) }

// Renderable pairs a context with the function rendering it.
type Renderable struct {
	context  any
	render   func(context any) any
	rendered bool
	output   any
	resolved bool
}

// NewRenderable creates a renderable. The render function receives the
// materialized context, and its output is composed in turn.
func NewRenderable(context any, render func(context any) any) *Renderable {
	return &Renderable{context: context, render: render}
}

// Output returns the rendered output and true, once the render function has
// been called.
func (r *Renderable) Output() (any, bool) { return r.output, r.rendered }

type composer struct {
	visited map[any]bool
}

// Compose materializes root. It returns the materialized value and nil, or
// nil and the first deferred value that is not ready yet. Calling it again
// with the same root continues where the previous call stopped.
func Compose(root any) (any, Deferred) {
	c := &composer{visited: make(map[any]bool)}
	return c.compose(root)
}

func (c *composer) compose(v any) (any, Deferred) {
	switch x := v.(type) {
	case Deferred:
		value, ok := x.Poll()
		if !ok {
			return nil, x
		}

		return c.compose(value)
	case *Map:
		if x == nil {
			return nil, nil
		}

		if x.resolved || c.visited[x] {
			return x, nil
		}

		c.visited[x] = true
		for i := range x.values {
			value, pending := c.compose(x.values[i])
			if pending != nil {
				return nil, pending
			}

			x.values[i] = value
		}

		x.resolved = true
		return x, nil
	case *List:
		if x == nil {
			return nil, nil
		}

		if x.resolved || c.visited[x] {
			return x, nil
		}

		c.visited[x] = true
		for i := range x.items {
			value, pending := c.compose(x.items[i])
			if pending != nil {
				return nil, pending
			}

			x.items[i] = value
		}

		x.resolved = true
		return x, nil
	case *Renderable:
		if x == nil {
			return nil, nil
		}

		if x.resolved {
			return x.output, nil
		}

		if c.visited[x] {
			return x, nil
		}

		c.visited[x] = true
		if !x.rendered {
			context, pending := c.compose(x.context)
			if pending != nil {
				return nil, pending
			}

			x.context = context
			x.output = x.render(context)
			x.rendered = true
		}

		output, pending := c.compose(x.output)
		if pending != nil {
			return nil, pending
		}

		x.output = output
		x.resolved = true
		return output, nil
	default:
		return v, nil
	}
}
