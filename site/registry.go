package site

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/zalando/sitetree/nrt"
	"github.com/zalando/sitetree/pages"
	"github.com/zalando/sitetree/resolver"
	"github.com/zalando/sitetree/route"
)

// ViewDef declares a view of an application.
type ViewDef struct {

	// Name identifies the view in its application. When empty, the name
	// of the view is used.
	Name string

	// Route is the pattern of the view relative to its parent.
	Route string

	// Parent is the name of the parent view. When empty, the view is
	// placed directly under the application route.
	Parent string

	View View
}

// Application is a named set of views.
type Application struct {
	Name string

	// Route is the pattern of the application relative to the mount
	// prefix.
	Route string

	Views []ViewDef
}

type mount struct {
	prefix string
	apps   []Application
}

// Registry collects the mounted applications. Mount and Build can be called
// from different goroutines.
type Registry struct {
	mu     sync.Mutex
	mounts []mount
}

// Table is the compiled form of a Registry, combined with a set of pages.
type Table struct {
	Resolver *resolver.Resolver

	endpoints map[string]*Endpoint
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Mount creates a site from a set of applications, under prefix. The prefix
// is always a non-leaf route. The same applications can be mounted multiple
// times. The routes are not compiled here. Invalid patterns and
// composition errors, like a view declared under a leaf parent, are
// reported by Build, which is called once before serving.
func (r *Registry) Mount(prefix string, apps ...Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mounts = append(r.mounts, mount{prefix: prefix, apps: apps})
}

// Len returns the number of sites.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mounts)
}

func viewName(d ViewDef) string {
	if d.Name != "" || d.View == nil {
		return d.Name
	}

	return d.View.Name()
}

// chain returns the route patterns of the ancestors of a view and of the
// view itself, root first.
func chain(app Application, byName map[string]ViewDef, d ViewDef) ([]string, error) {
	var (
		patterns []string
		visited  = make(map[string]bool)
		name     = viewName(d)
	)

	for {
		if visited[name] {
			return nil, &route.CompositionError{
				Parent: qualify(app.Name, d.Parent),
				Child:  qualify(app.Name, viewName(d)),
				Reason: "parent cycle",
			}
		}

		visited[name] = true
		patterns = append([]string{d.Route}, patterns...)
		if d.Parent == "" {
			return patterns, nil
		}

		parent, ok := byName[d.Parent]
		if !ok {
			return nil, &route.CompositionError{
				Parent: qualify(app.Name, d.Parent),
				Child:  qualify(app.Name, name),
				Reason: "unknown parent view",
			}
		}

		d, name = parent, d.Parent
	}
}

// compileSite returns the canonical prefix of a site and its tree entries.
func compileSite(m mount) (string, []nrt.Entry, error) {
	prefix, err := route.New(m.prefix, true)
	if err != nil {
		return "", nil, fmt.Errorf("site %s: %w", m.prefix, err)
	}

	var entries []nrt.Entry
	for _, app := range m.apps {
		appRoute, err := route.Compile(app.Route)
		if err != nil {
			return "", nil, fmt.Errorf("application %s: %w", app.Name, err)
		}

		byName := make(map[string]ViewDef, len(app.Views))
		for _, d := range app.Views {
			name := viewName(d)
			if _, exists := byName[name]; exists {
				return "", nil, fmt.Errorf("application %s: duplicate view %q", app.Name, name)
			}

			byName[name] = d
		}

		for _, d := range app.Views {
			patterns, err := chain(app, byName, d)
			if err != nil {
				return "", nil, err
			}

			routes := []*route.Route{prefix, appRoute}
			for _, p := range patterns {
				r, err := route.Compile(p)
				if err != nil {
					return "", nil, fmt.Errorf("view %s: %w", qualify(app.Name, viewName(d)), err)
				}

				routes = append(routes, r)
			}

			full, err := route.Chain(routes...)
			if err != nil {
				return "", nil, fmt.Errorf("view %s: %w", qualify(app.Name, viewName(d)), err)
			}

			entries = append(entries, nrt.Entry{
				Route: full,
				View: &Endpoint{
					Site:        prefix.Path(),
					Application: app.Name,
					Name:        viewName(d),
					Route:       full,
					View:        d.View,
				},
			})
		}
	}

	return prefix.Path(), entries, nil
}

// Build compiles the mounted applications, and creates a table resolving
// their views and the pages. The routes are compiled again on every call.
func (r *Registry) Build(ps []*pages.Page) (*Table, error) {
	r.mu.Lock()
	mounts := make([]mount, len(r.mounts))
	copy(mounts, r.mounts)
	r.mu.Unlock()

	var sites []resolver.Site
	endpoints := make(map[string]*Endpoint)
	for _, m := range mounts {
		name, entries, err := compileSite(m)
		if err != nil {
			return nil, err
		}

		tree, err := nrt.Build(entries)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", m.prefix, err)
		}

		for _, e := range entries {
			ep := e.View.(*Endpoint)
			if _, exists := endpoints[ep.QualifiedName()]; !exists {
				endpoints[ep.QualifiedName()] = ep
			}
		}

		sites = append(sites, resolver.Site{Name: name, Tree: tree})
	}

	return &Table{
		Resolver:  resolver.New(sites, resolver.NewOverlay(ps)),
		endpoints: endpoints,
	}, nil
}

// Endpoint returns an endpoint by its qualified name. When an application
// is mounted multiple times, the first mount is returned.
func (t *Table) Endpoint(name string) (*Endpoint, bool) {
	e, ok := t.endpoints[name]
	return e, ok
}

// URL builds the path of a named endpoint.
func (t *Table) URL(name string, values route.Values) (string, error) {
	e, ok := t.endpoints[name]
	if !ok {
		return "", fmt.Errorf("unknown endpoint: %s", name)
	}

	return e.Route.BuildPath(values)
}

// Request resolves path, and creates the request passed to the view.
func (t *Table) Request(path string, hr *http.Request) (*Request, error) {
	res, err := t.Resolver.Resolve(path)
	if err != nil {
		return nil, err
	}

	ep, _ := res.View().(*Endpoint)
	return &Request{
		Path:     res.Path,
		Args:     res.Args(),
		Page:     res.Page,
		Endpoint: ep,
		HTTP:     hr,
		table:    t,
	}, nil
}
