package pagesfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/sitetree/pages"
)

const testDoc = `pages:
- url: /about/
  title: About
  body: <p>We are here.</p>
- url: /blog/2024/
  title: Archive 2024
  fields:
    year: "2024"
`

func TestParse(t *testing.T) {
	ps, err := Parse([]byte(testDoc))
	require.NoError(t, err)
	assert.Equal(t, []*pages.Page{
		{URL: "/about/", Title: "About", Body: "<p>We are here.</p>"},
		{URL: "/blog/2024/", Title: "Archive 2024", Fields: map[string]string{"year": "2024"}},
	}, ps)
}

func TestParseEmpty(t *testing.T) {
	ps, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct {
		title string
		doc   string
	}{{
		title: "invalid yaml",
		doc:   "pages: [",
	}, {
		title: "unknown field",
		doc:   "pages:\n- url: /a/\n  color: red\n",
	}, {
		title: "missing url",
		doc:   "pages:\n- title: A\n",
	}, {
		title: "null page",
		doc:   "pages:\n- \n",
	}, {
		title: "duplicate url",
		doc:   "pages:\n- url: /a/\n- url: /a/\n",
	}} {
		t.Run(tt.title, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestOpen(t *testing.T) {
	name := filepath.Join(t.TempDir(), "pages.yaml")
	require.NoError(t, os.WriteFile(name, []byte(testDoc), 0o644))

	ps, err := Open(name)
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
