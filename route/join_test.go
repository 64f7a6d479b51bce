package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	r, err := Join(MustCompile("blog/"), MustCompile("<int(min=1):id>/"))
	require.NoError(t, err)
	assert.Equal(t, "/blog/<int(min=1):id>/", r.Path())
	assert.Equal(t, []string{"id"}, r.Variables())
	assert.False(t, r.IsLeaf())

	r, err = Join(r, MustCompile("delete"))
	require.NoError(t, err)
	assert.Equal(t, "/blog/<int(min=1):id>/delete", r.Path())
	assert.True(t, r.IsLeaf())

	v, ok := r.Match("/blog/3/delete")
	require.True(t, ok)
	assert.Equal(t, Values{"id": 3}, v)
}

func TestJoinRoot(t *testing.T) {
	parent := MustCompile("admin/")
	r, err := Join(parent, Root)
	require.NoError(t, err)
	assert.Equal(t, "/admin/", r.Path())

	r, err = Join(Root, parent)
	require.NoError(t, err)
	assert.Equal(t, "/admin/", r.Path())
}

func TestJoinLeafParent(t *testing.T) {
	_, err := Join(MustCompile("detail"), MustCompile("delete/"))
	var cerr *CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "/detail", cerr.Parent)
	assert.Equal(t, "/delete/", cerr.Child)

	leaf, err := New("object/", false)
	require.NoError(t, err)
	_, err = Join(leaf, MustCompile("change"))
	require.ErrorAs(t, err, &cerr)
}

func TestJoinVariableCollision(t *testing.T) {
	_, err := Join(MustCompile("<int:id>/"), MustCompile("<id>"))
	var cerr *CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), `"id"`)
}

func TestChain(t *testing.T) {
	r, err := Chain(
		MustCompile("/"),
		MustCompile("admin/"),
		MustCompile("users/"),
		MustCompile("<int:id>/"),
		MustCompile("change"),
	)
	require.NoError(t, err)
	assert.Equal(t, "/admin/users/<int:id>/change", r.Path())

	r, err = Chain()
	require.NoError(t, err)
	assert.True(t, r.IsRoot())

	_, err = Chain(MustCompile("a"), MustCompile("b"))
	assert.Error(t, err)
}
