package compose

import (
	"errors"
	"fmt"

	"github.com/valyala/bytebufferpool"
)

// Flatten concatenates the leaves of a materialized value. Failures and
// unresolved parts produce no output, and cyclic containers are written
// only once per path.
func Flatten(v any) string {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)
	flatten(b, v, make(map[any]bool))
	return b.String()
}

func flatten(b *bytebufferpool.ByteBuffer, v any, visited map[any]bool) {
	switch x := v.(type) {
	case nil, Failure, Deferred:
	case string:
		b.WriteString(x)
	case []byte:
		b.Write(x)
	case *Map:
		if x == nil || visited[x] {
			return
		}

		visited[x] = true
		for _, vi := range x.values {
			flatten(b, vi, visited)
		}

		delete(visited, x)
	case *List:
		if x == nil || visited[x] {
			return
		}

		visited[x] = true
		for _, vi := range x.items {
			flatten(b, vi, visited)
		}

		delete(visited, x)
	case *Renderable:
		if x != nil && x.resolved && !visited[x] {
			visited[x] = true
			flatten(b, x.output, visited)
			delete(visited, x)
		}
	case fmt.Stringer:
		b.WriteString(x.String())
	default:
		fmt.Fprint(b, x)
	}
}

// FirstFailure returns the error of the first Failure found in a
// materialized value, depth first, or nil.
func FirstFailure(v any) error {
	return firstFailure(v, make(map[any]bool))
}

func firstFailure(v any, visited map[any]bool) error {
	switch x := v.(type) {
	case Failure:
		if x.Err == nil {
			return errors.New("failure")
		}

		return x.Err
	case *Map:
		if x == nil || visited[x] {
			return nil
		}

		visited[x] = true
		for _, vi := range x.values {
			if err := firstFailure(vi, visited); err != nil {
				return err
			}
		}
	case *List:
		if x == nil || visited[x] {
			return nil
		}

		visited[x] = true
		for _, vi := range x.items {
			if err := firstFailure(vi, visited); err != nil {
				return err
			}
		}
	case *Renderable:
		if x == nil || visited[x] || !x.resolved {
			return nil
		}

		visited[x] = true
		return firstFailure(x.output, visited)
	}

	return nil
}
