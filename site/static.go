package site

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/zalando/sitetree/compose"
	"github.com/zalando/sitetree/resolver"
)

type funcView struct {
	name   string
	render func(context.Context, *Request) any
}

// NewView creates a view from a render function. The view is always
// permitted.
func NewView(name string, render func(context.Context, *Request) any) View {
	return &funcView{name: name, render: render}
}

func (v *funcView) Name() string { return v.name }

func (v *funcView) Render(ctx context.Context, r *Request) any { return v.render(ctx, r) }

func (v *funcView) Permitted(context.Context, *Request) bool { return true }

// StaticView renders a fixed body. The {{name}} placeholders of the body
// are replaced with the HTML escaped route arguments, and {{page.title}}
// and {{page.<field>}} with the data of the page registered for the path.
// When a page with a body is registered, its body is rendered instead. The
// pages come from the operator, and their fields are inserted as HTML.
type StaticView struct {
	ViewName string
	Title    string
	Body     string

	// Nav appends the links to the children of the path.
	Nav bool

	// RequireAuth denies requests without an Authorization header.
	RequireAuth bool
}

func (v *StaticView) Name() string { return v.ViewName }

func (v *StaticView) Permitted(_ context.Context, r *Request) bool {
	if !v.RequireAuth {
		return true
	}

	return r.HTTP != nil && r.HTTP.Header.Get("Authorization") != ""
}

func (v *StaticView) Render(_ context.Context, r *Request) any {
	title, body := v.Title, v.Body
	vars := compose.NewMap()

	names := make([]string, 0, len(r.Args))
	for name := range r.Args {
		names = append(names, name)
	}

	sort.Strings(names)
	for _, name := range names {
		vars.Set(name, html.EscapeString(fmt.Sprint(r.Args[name])))
	}

	if p := r.Page; p != nil {
		if p.Title != "" {
			title = p.Title
		}

		if p.Body != "" {
			body = p.Body
		}

		fields := make([]string, 0, len(p.Fields))
		for name := range p.Fields {
			fields = append(fields, name)
		}

		sort.Strings(fields)
		for _, name := range fields {
			vars.Set("page."+name, p.Fields[name])
		}
	}

	vars.Set("page.title", title)
	out := compose.NewList(compose.NewRenderable(vars, func(c any) any {
		return expand(body, c.(*compose.Map))
	}))

	if v.Nav {
		out.Append(compose.NewRenderable(compose.Go(func() (any, error) {
			links, err := r.Children()
			if err != nil {
				return nil, err
			}

			return links, nil
		}), renderNav))
	}

	return out
}

func renderNav(c any) any {
	if f, ok := c.(compose.Failure); ok {
		return f
	}

	links, _ := c.([]resolver.Link)
	var b strings.Builder
	b.WriteString("<ul>")
	for _, l := range links {
		text := l.Path
		if l.Page != nil && l.Page.Title != "" {
			text = l.Page.Title
		}

		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(l.Path), html.EscapeString(text))
	}

	b.WriteString("</ul>")
	return b.String()
}

// expand replaces the {{name}} placeholders of s. Unknown placeholders are
// kept.
func expand(s string, vars *compose.Map) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "{{")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}

		j := strings.Index(s[i:], "}}")
		if j < 0 {
			b.WriteString(s)
			return b.String()
		}

		b.WriteString(s[:i])
		name := strings.TrimSpace(s[i+2 : i+j])
		if v, ok := vars.Get(name); ok {
			b.WriteString(fmt.Sprint(v))
		} else {
			b.WriteString(s[i : i+j+2])
		}

		s = s[i+j+2:]
	}
}
