/*
Package site contains the view layer: the View interface implemented by the
applications, the declarations of the applications and their views, and the
Registry that mounts the applications under URL prefixes and compiles them
into a resolver.

Every Mount call creates a site. The routes of a site are the chains of the
mount prefix, the application route, the routes of the ancestor views and
the route of the view itself. The sites are consulted in mount order.
*/
package site

import (
	"context"
	"net/http"

	"github.com/zalando/sitetree/pages"
	"github.com/zalando/sitetree/resolver"
	"github.com/zalando/sitetree/route"
)

// View renders the response of a resolved request. The returned value is
// composed with compose.Compose, so it can contain deferred parts.
type View interface {
	Name() string
	Render(context.Context, *Request) any
	Permitted(context.Context, *Request) bool
}

// Endpoint is a view placed in a site. It is the node value of the route
// trees built by a Registry.
type Endpoint struct {

	// Site is the mount prefix of the site.
	Site string

	Application string
	Name        string
	Route       *route.Route
	View        View
}

// QualifiedName returns the name of the endpoint prefixed with its
// application.
func (e *Endpoint) QualifiedName() string {
	return qualify(e.Application, e.Name)
}

func qualify(app, view string) string {
	if app == "" {
		return view
	}

	return app + ":" + view
}

// Request is passed to the views.
type Request struct {

	// Path is the requested path.
	Path string

	// Args are the typed values of the route variables.
	Args route.Values

	// Page is the page registered for the path, if any.
	Page *pages.Page

	// Endpoint is the matched endpoint. It can be nil for pages without a
	// declared ancestor.
	Endpoint *Endpoint

	// HTTP is the incoming request, when there is one.
	HTTP *http.Request

	table *Table
}

// Children returns the navigation links below the request path.
func (r *Request) Children() ([]resolver.Link, error) {
	return r.table.Resolver.Children(r.Path)
}

// Ancestors returns the navigation links above the request path, root
// first.
func (r *Request) Ancestors() ([]resolver.Link, error) {
	return r.table.Resolver.Ancestors(r.Path)
}

// URL builds the path of a named endpoint. Missing values are taken from
// the request arguments.
func (r *Request) URL(name string, values route.Values) (string, error) {
	v := r.Args.Clone()
	for k, vi := range values {
		v[k] = vi
	}

	return r.table.URL(name, v)
}
