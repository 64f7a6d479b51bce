package route

import "fmt"

// Join appends child to parent. The parent must not be a leaf, and the
// variable names of the two routes must not collide.
func Join(parent, child *Route) (*Route, error) {
	if parent.IsLeaf() {
		return nil, &CompositionError{
			Parent: parent.Path(),
			Child:  child.Path(),
			Reason: "parent route is a leaf",
		}
	}

	names := make(map[string]bool, len(parent.variables))
	for _, n := range parent.variables {
		names[n] = true
	}

	for _, n := range child.variables {
		if names[n] {
			return nil, &CompositionError{
				Parent: parent.Path(),
				Child:  child.Path(),
				Reason: fmt.Sprintf("variable %q already defined", n),
			}
		}
	}

	if child.IsRoot() {
		return parent, nil
	}

	segments := make([]Segment, 0, len(parent.segments)+len(child.segments))
	segments = append(segments, parent.segments...)
	segments = append(segments, child.segments...)
	return newRoute(segments, child.appendSlash), nil
}

// Chain joins the routes from left to right.
func Chain(routes ...*Route) (*Route, error) {
	r := Root
	for _, ri := range routes {
		var err error
		if r, err = Join(r, ri); err != nil {
			return nil, err
		}
	}

	return r, nil
}
