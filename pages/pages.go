/*
Package pages defines the content pages that can be overlaid on the routes
declared by the sites, and the interface of the clients providing them.

A page is identified by its URL. When a page URL matches no declared route,
the page still resolves, rendered by the view of its closest resolvable
ancestor. This lets content authors add pages under any declared branch
without a code change.
*/
package pages

// Page is a content record associated with a URL.
type Page struct {
	URL    string            `yaml:"url"`
	Title  string            `yaml:"title"`
	Body   string            `yaml:"body"`
	Fields map[string]string `yaml:"fields,omitempty"`
}

// Client provides pages. LoadAll returns the full set of pages, LoadUpdate
// the pages changed since the last call, and the URLs of the deleted ones.
type Client interface {
	LoadAll() ([]*Page, error)
	LoadUpdate() ([]*Page, []string, error)
}

// Notifier is implemented by clients that can signal that an update is
// available, so it doesn't need to wait for the next poll.
type Notifier interface {
	Notify() <-chan struct{}
}
