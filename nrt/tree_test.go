package nrt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/sitetree/route"
)

func entries(patterns ...string) []Entry {
	var e []Entry
	for _, p := range patterns {
		e = append(e, Entry{Route: route.MustCompile(p), View: p})
	}

	return e
}

func mustBuild(t *testing.T, patterns ...string) *Tree {
	t.Helper()
	tree, err := Build(entries(patterns...))
	require.NoError(t, err)
	return tree
}

func TestScenarioB(t *testing.T) {
	tree := mustBuild(t, "bla/foo", "bla/")
	require.Equal(t, 2, tree.Len())

	foo, ok := tree.Lookup("/bla/foo")
	require.True(t, ok)
	bla, ok := tree.Lookup("/bla/")
	require.True(t, ok)

	assert.Equal(t, bla, tree.Node(foo).Parent)
	assert.Equal(t, []int{foo}, tree.Node(bla).Children)
	assert.Equal(t, []int{bla}, tree.Roots())

	i, v, ok := tree.Match("/bla/foo")
	require.True(t, ok)
	assert.Equal(t, foo, i)
	assert.Equal(t, route.Values{}, v)
}

func TestMultipleRoots(t *testing.T) {
	tree := mustBuild(t, "blog/", "shop/", "blog/<slug>", "shop/cart")
	require.Len(t, tree.Roots(), 2)
	assert.Equal(t, "/blog/", tree.Node(tree.Roots()[0]).Route.Path())
	assert.Equal(t, "/shop/", tree.Node(tree.Roots()[1]).Route.Path())
}

func TestFirstLevelWithoutRootIsRoot(t *testing.T) {
	tree := mustBuild(t, "/", "a/", "a/b/")
	assert.Equal(t, []int{0}, tree.Roots())

	tree = mustBuild(t, "a/", "c/", "c/d")
	assert.Len(t, tree.Roots(), 2)
}

func TestSkippedLevel(t *testing.T) {
	tree := mustBuild(t, "/", "a/b/c/", "x/")
	c, _ := tree.Lookup("/a/b/c/")
	root, _ := tree.Lookup("/")
	assert.Equal(t, root, tree.Node(c).Parent)
}

func TestOrphan(t *testing.T) {
	_, err := Build(entries("a/", "b/c/"))
	var oerr *OrphanRouteError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "/b/c/", oerr.Path)
}

func TestLeafIsNotAnAncestor(t *testing.T) {
	tree := mustBuild(t, "a/", "a/b", "a/b/c")
	c, _ := tree.Lookup("/a/b/c")
	a, _ := tree.Lookup("/a/")
	assert.Equal(t, a, tree.Node(c).Parent)

	_, err := Build(entries("a/", "b", "b/c"))
	var oerr *OrphanRouteError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "/b/c", oerr.Path)
}

func TestDuplicate(t *testing.T) {
	_, err := Build(entries("a/", "a/<int:id>/", "/a/<int:id>/"))
	var derr *DuplicateRouteError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "/a/<int:id>/", derr.Path)

	_, err = Build(entries("a/", "a"))
	assert.NoError(t, err)
}

func TestEmpty(t *testing.T) {
	tree, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
	_, _, ok := tree.Match("/")
	assert.False(t, ok)
}

func TestMatchVariables(t *testing.T) {
	tree := mustBuild(t,
		"/",
		"blog/",
		"blog/<int(min=1):id>/",
		"blog/<int(min=1):id>/delete",
		"blog/archive/<int(4):year>/",
	)

	for _, tt := range []struct {
		path   string
		route  string
		values route.Values
	}{
		{"/", "/", route.Values{}},
		{"/blog/", "/blog/", route.Values{}},
		{"/blog/3/", "/blog/<int(min=1):id>/", route.Values{"id": 3}},
		{"/blog/3/delete", "/blog/<int(min=1):id>/delete", route.Values{"id": 3}},
		{"/blog/archive/2024/", "/blog/archive/<int(4):year>/", route.Values{"year": 2024}},
		{"/blog/0/", "", nil},
		{"/blog/3/change", "", nil},
		{"/nope/", "", nil},
	} {
		t.Run(tt.path, func(t *testing.T) {
			i, v, ok := tree.Match(tt.path)
			if tt.route == "" {
				assert.False(t, ok)
				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.route, tree.Node(i).Route.Path())
			assert.Equal(t, tt.values, v)
		})
	}
}

func TestAncestors(t *testing.T) {
	tree := mustBuild(t, "a/b/c", "/", "a/", "a/b/")
	c, _ := tree.Lookup("/a/b/c")

	var paths []string
	for _, i := range tree.Ancestors(c) {
		paths = append(paths, tree.Node(i).Route.Path())
	}

	assert.Equal(t, []string{"/", "/a/", "/a/b/"}, paths)
	assert.Empty(t, tree.Ancestors(tree.Roots()[0]))
}

func TestTreeTotality(t *testing.T) {
	tree := mustBuild(t,
		"x/<int:id>/edit",
		"/",
		"a/",
		"a/b/",
		"a/b/c",
		"a/<slug>/",
		"a/<slug>/d",
		"x/",
		"x/<int:id>/",
		"y/z/",
	)

	parentOf := make(map[int]int)
	tree.Walk(func(i int, n *Node) bool {
		for _, c := range n.Children {
			_, shared := parentOf[c]
			assert.False(t, shared, "child %d shared", c)
			parentOf[c] = i
		}

		return true
	})

	roots := make(map[int]bool)
	for _, r := range tree.Roots() {
		roots[r] = true
	}

	for i := 0; i < tree.Len(); i++ {
		n := tree.Node(i)
		if roots[i] {
			assert.Equal(t, -1, n.Parent)
			continue
		}

		assert.Equal(t, parentOf[i], n.Parent)
		p := tree.Node(n.Parent)
		assert.Less(t, p.Level, n.Level)
		assert.True(t, strings.HasPrefix(n.Route.Path(), p.Route.Path()), "%s is not below %s", n.Route, p.Route)

		// reaches a root
		j, steps := i, 0
		for tree.Node(j).Parent >= 0 && steps <= tree.Len() {
			j = tree.Node(j).Parent
			steps++
		}

		assert.True(t, roots[j])
	}
}

func TestWalkStops(t *testing.T) {
	tree := mustBuild(t, "/", "a/", "b/")
	var visited int
	tree.Walk(func(int, *Node) bool {
		visited++
		return visited < 2
	})

	assert.Equal(t, 2, visited)
}

func TestString(t *testing.T) {
	tree := mustBuild(t, "/", "a/", "a/b", "c/")
	assert.Equal(t, "/\n  /a/\n    /a/b\n  /c/\n", tree.String())
}
