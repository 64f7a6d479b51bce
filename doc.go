/*
Package sitetree serves web sites composed of independently declared
applications and content pages.

Applications declare their views with relative route patterns and parent
views. The applications are mounted under URL prefixes, each mount forming
a site. At load time, the routes of every site are composed into absolute
patterns, and arranged into a tree where every route is the child of the
longest route it extends. The sites are consulted in mount order when
resolving a request path.

Content pages can be overlaid on the routes. A page matching a declared
route is passed to the view of the route. A page without a declared route
is rendered by the view of its closest declared ancestor. The pages are
loaded from YAML files, watched for changes, and the resolver is rebuilt
and swapped in without restart when they change.

The views return values that can contain deferred parts, e.g. results of
backend calls still in flight. The response is composed from these values
without blocking, and the handler waits only for the part that the
composition stopped on.

# Quickstart

Declare the sites in a config file:

	sites:
	- prefix: /
	  applications:
	  - name: main
	    views:
	    - name: home
	      body: <h1>{{ page.title }}</h1>{{ page.body }}
	      nav: true
	    - name: post
	      route: posts/<int:id>/
	      title: Post {{ id }}

and start the binary:

	sitetree -config-file sites.yaml -pages-file pages.yaml

The /metrics and /health endpoints are served on the support listener,
by default on :9911.

# Embedding

Custom views implement the site.View interface, and are mounted with a
site.Registry:

	r := site.NewRegistry()
	r.Mount("/blog/", site.Application{
		Name: "blog",
		Views: []site.ViewDef{
			{Name: "index", View: site.NewView("index", renderIndex)},
			{Name: "post", Route: "<int:id>/", View: site.NewView("post", renderPost)},
		},
	})

	log.Fatal(sitetree.Run(sitetree.Options{
		Address:    ":9090",
		Registry:   r,
		PagesFiles: []string{"pages.yaml"},
	}))
*/
package sitetree
