package site

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/sitetree/compose"
	"github.com/zalando/sitetree/pages"
)

func render(t *testing.T, table *Table, path string) string {
	t.Helper()
	hr := httptest.NewRequest("GET", (&url.URL{Path: path}).RequestURI(), nil)
	req, err := table.Request(path, hr)
	require.NoError(t, err)
	require.NotNil(t, req.Endpoint)

	v, err := compose.Wait(context.Background(), req.Endpoint.View.Render(context.Background(), req))
	require.NoError(t, err)
	require.NoError(t, compose.FirstFailure(v))
	return compose.Flatten(v)
}

func TestStaticView(t *testing.T) {
	r := NewRegistry()
	r.Mount("/", Application{Name: "docs", Views: []ViewDef{
		{Name: "index", View: &StaticView{Title: "Docs", Body: "<h1>{{page.title}}</h1>", Nav: true}},
		{Name: "chapter", Route: "<int(min=1):n>/", View: &StaticView{
			Title: "Chapter",
			Body:  "<h1>{{ page.title }} {{n}}</h1>{{unknown}}",
		}},
		{Name: "about", Route: "about", View: &StaticView{Body: "about"}},
	}})

	table, err := r.Build([]*pages.Page{
		{URL: "/about", Title: "About us"},
		{URL: "/3/", Title: "Third", Body: "<h2>{{page.title}} {{page.author}} {{n}}</h2>", Fields: map[string]string{"author": "mia"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "<h1>Chapter 1</h1>{{unknown}}", render(t, table, "/1/"))
	assert.Equal(t, "<h2>Third mia 3</h2>", render(t, table, "/3/"))
	assert.Equal(t,
		`<h1>Docs</h1><ul><li><a href="/about">About us</a></li><li><a href="/3/">Third</a></li></ul>`,
		render(t, table, "/"),
	)
}

func TestStaticViewEscapesArgs(t *testing.T) {
	r := NewRegistry()
	r.Mount("/", Application{Name: "tags", Views: []ViewDef{
		{Name: "index", View: &StaticView{Body: "tags"}},
		{Name: "tag", Route: "tags/<slug>/", View: &StaticView{Body: "tag {{ slug }}"}},
	}})

	table, err := r.Build([]*pages.Page{
		{URL: "/tags/go/", Fields: map[string]string{"intro": "<em>go</em>"}, Body: "{{page.intro}} {{slug}}"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"tag &lt;img src=x onerror=alert(1)&gt;",
		render(t, table, "/tags/<img src=x onerror=alert(1)>/"),
	)
	assert.Equal(t, "<em>go</em> go", render(t, table, "/tags/go/"))
}

func TestStaticViewPermitted(t *testing.T) {
	v := &StaticView{ViewName: "private", RequireAuth: true}
	assert.Equal(t, "private", v.Name())

	hr := httptest.NewRequest("GET", "/", nil)
	assert.False(t, v.Permitted(context.Background(), &Request{HTTP: hr}))
	assert.False(t, v.Permitted(context.Background(), &Request{}))

	hr.Header.Set("Authorization", "Bearer x")
	assert.True(t, v.Permitted(context.Background(), &Request{HTTP: hr}))
	assert.True(t, (&StaticView{}).Permitted(context.Background(), &Request{}))
}

func TestExpand(t *testing.T) {
	vars := compose.NewMap("a", "1", "b", 2)
	for in, out := range map[string]string{
		"":              "",
		"plain":         "plain",
		"{{a}}":         "1",
		"x{{a}}y{{b}}z": "x1y2z",
		"{{ a }}":       "1",
		"{{c}}":         "{{c}}",
		"{{a":           "{{a",
		"}}{{a}}":       "}}1",
	} {
		assert.Equal(t, out, expand(in, vars), in)
	}
}
