package testdataclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/sitetree/pages"
)

func TestInitEmpty(t *testing.T) {
	dc := New(nil)
	ps, err := dc.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestLoadAllOrdered(t *testing.T) {
	dc := New([]*pages.Page{{URL: "/b/"}, {URL: "/a/"}})
	ps, err := dc.LoadAll()
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "/a/", ps[0].URL)
	assert.Equal(t, "/b/", ps[1].URL)
}

func TestUpdate(t *testing.T) {
	dc := New([]*pages.Page{{URL: "/a/"}, {URL: "/b/"}})
	_, err := dc.LoadAll()
	require.NoError(t, err)

	dc.Update([]*pages.Page{{URL: "/c/"}}, []string{"/a/"})
	select {
	case <-dc.Notify():
	default:
		t.Fatal("no notification")
	}

	u, d, err := dc.LoadUpdate()
	require.NoError(t, err)
	require.Len(t, u, 1)
	assert.Equal(t, "/c/", u[0].URL)
	assert.Equal(t, []string{"/a/"}, d)

	u, d, err = dc.LoadUpdate()
	require.NoError(t, err)
	assert.Empty(t, u)
	assert.Empty(t, d)

	ps, err := dc.LoadAll()
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "/b/", ps[0].URL)
	assert.Equal(t, "/c/", ps[1].URL)
}

func TestFailNext(t *testing.T) {
	dc := New(nil)
	dc.FailNext(2)

	_, err := dc.LoadAll()
	assert.ErrorIs(t, err, ErrFailing)
	_, _, err = dc.LoadUpdate()
	assert.ErrorIs(t, err, ErrFailing)
	_, err = dc.LoadAll()
	assert.NoError(t, err)
}
