/*
Package pagesfile implements a page client reading the pages from a YAML
file, and watching it for changes.

The file contains a list of pages under the pages key:

	pages:
	- url: /about/
	  title: About
	  body: <p>We are here.</p>
	- url: /blog/2024/
	  title: Archive 2024
	  fields:
	    year: "2024"
*/
package pagesfile

import (
	"fmt"
	"os"

	"github.com/zalando/sitetree/pages"
	"gopkg.in/yaml.v2"
)

type document struct {
	Pages []*pages.Page `yaml:"pages"`
}

// Parse parses a YAML page document. Every page needs a URL, and the URLs
// must be unique.
func Parse(data []byte) ([]*pages.Page, error) {
	var doc document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pages: %w", err)
	}

	seen := make(map[string]bool)
	for i, p := range doc.Pages {
		if p == nil || p.URL == "" {
			return nil, fmt.Errorf("page %d: missing url", i)
		}

		if seen[p.URL] {
			return nil, fmt.Errorf("duplicate page url: %s", p.URL)
		}

		seen[p.URL] = true
	}

	return doc.Pages, nil
}

// Open reads the pages from a file once.
func Open(name string) ([]*pages.Page, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	return Parse(content)
}
