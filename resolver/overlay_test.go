package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/sitetree/pages"
)

func TestOverlay(t *testing.T) {
	o := NewOverlay([]*pages.Page{
		{URL: "/about/", Title: "first"},
		{URL: "/a//b/", Title: "b"},
		nil,
		{URL: "/about/", Title: "second"},
	})

	assert.Equal(t, 2, o.Len())
	assert.Equal(t, []string{"/a/b/", "/about/"}, o.Paths())
	assert.Equal(t, "second", o.Get("/about/").Title)
	assert.Nil(t, o.Get("/about"))

	var nilOverlay *Overlay
	assert.Nil(t, nilOverlay.Get("/"))
	assert.Equal(t, 0, nilOverlay.Len())
	assert.Nil(t, nilOverlay.Paths())
	assert.Nil(t, nilOverlay.children("/"))
}

func TestOverlayChildren(t *testing.T) {
	o := NewOverlay([]*pages.Page{
		{URL: "/a/"},
		{URL: "/a/b/"},
		{URL: "/a/b/c/"},
		{URL: "/a/d"},
		{URL: "/e/"},
	})

	assert.Equal(t, []string{"/a/", "/e/"}, o.children("/"))
	assert.Equal(t, []string{"/a/b/", "/a/d"}, o.children("/a/"))
	assert.Empty(t, o.children("/a/d"))
}

func TestParentPath(t *testing.T) {
	for path, parent := range map[string]string{
		"/":       "",
		"":        "",
		"/a":      "/",
		"/a/":     "/",
		"/a/b":    "/a/",
		"/a/b/":   "/a/",
		"/a/b/c/": "/a/b/",
	} {
		assert.Equal(t, parent, parentPath(path), path)
	}
}

func TestPathLevel(t *testing.T) {
	assert.Equal(t, 0, pathLevel("/"))
	assert.Equal(t, 1, pathLevel("/a/"))
	assert.Equal(t, 2, pathLevel("/a/b"))
}
