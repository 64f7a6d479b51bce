package route

import (
	"fmt"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// RemainingKey is the key under which Match reports the unmatched trailing
// segments of a path matched by a non-leaf route.
const RemainingKey = "__remaining__"

// Values maps variable names to their typed values.
type Values map[string]any

// Remaining returns the unmatched trailing part reported by Match.
func (v Values) Remaining() (string, bool) {
	s, ok := v[RemainingKey].(string)
	return s, ok
}

// Clone returns a copy of the values without the RemainingKey entry.
func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, vi := range v {
		if k != RemainingKey {
			c[k] = vi
		}
	}

	return c
}

// Variable describes a variable segment.
type Variable struct {
	Name      string
	Converter Converter
}

// Segment is either a literal path segment or a variable.
type Segment struct {
	Literal  string
	Variable *Variable
}

func (s Segment) IsVariable() bool { return s.Variable != nil }

// String returns the canonical form of the segment. Variables with the
// string converter are printed as <name>, others as <converter:name>.
func (s Segment) String() string {
	if s.Variable == nil {
		return s.Literal
	}

	if s.Variable.Converter.Kind() == KindString {
		return "<" + s.Variable.Name + ">"
	}

	return "<" + s.Variable.Converter.String() + ":" + s.Variable.Name + ">"
}

// Route is a compiled URL pattern. Routes are immutable.
type Route struct {
	pattern     string
	path        string
	segments    []Segment
	variables   []string
	appendSlash bool
	relative    bool
}

// Root is the route matching "/".
var Root = MustCompile("/")

// Compile compiles a pattern. A trailing slash in the pattern, or an empty
// pattern, makes the route a non-leaf.
func Compile(pattern string) (*Route, error) {
	appendSlash := strings.Trim(pattern, "/") == "" || strings.HasSuffix(pattern, "/")
	return New(pattern, appendSlash)
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Route {
	r, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return r
}

// New compiles a pattern with an explicit trailing slash setting. The
// trailing slash of the pattern itself is ignored. A route without append
// slash is a leaf, except for the root route.
func New(pattern string, appendSlash bool) (*Route, error) {
	var segments []Segment
	seen := make(map[string]bool)
	for _, token := range strings.Split(pattern, "/") {
		if token == "" {
			continue
		}

		s, err := parseSegment(token)
		if err != nil {
			return nil, &CompileError{Pattern: pattern, Reason: err.Error()}
		}

		if s.Variable != nil {
			if seen[s.Variable.Name] {
				return nil, &CompileError{
					Pattern: pattern,
					Reason:  fmt.Sprintf("duplicate variable %q", s.Variable.Name),
				}
			}

			seen[s.Variable.Name] = true
		}

		segments = append(segments, s)
	}

	r := newRoute(segments, appendSlash || len(segments) == 0)
	r.pattern = pattern
	r.relative = len(segments) > 0 && !strings.HasPrefix(pattern, "/")
	return r, nil
}

func newRoute(segments []Segment, appendSlash bool) *Route {
	r := &Route{segments: segments, appendSlash: appendSlash}
	var sb strings.Builder
	sb.WriteByte('/')
	for i, s := range segments {
		if i > 0 {
			sb.WriteByte('/')
		}

		sb.WriteString(s.String())
		if s.Variable != nil {
			r.variables = append(r.variables, s.Variable.Name)
		}
	}

	if appendSlash && len(segments) > 0 {
		sb.WriteByte('/')
	}

	r.path = sb.String()
	r.pattern = r.path
	return r
}

func isNameChar(c byte, first bool) bool {
	return c == '_' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		!first && c >= '0' && c <= '9'
}

func validName(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		if !isNameChar(name[i], i == 0) {
			return false
		}
	}

	return true
}

func parseSegment(token string) (Segment, error) {
	if !strings.HasPrefix(token, "<") {
		if strings.ContainsAny(token, "<>") {
			return Segment{}, fmt.Errorf("malformed segment %q", token)
		}

		return Segment{Literal: token}, nil
	}

	if !strings.HasSuffix(token, ">") {
		return Segment{}, fmt.Errorf("malformed variable %q", token)
	}

	body := token[1 : len(token)-1]
	if strings.ContainsAny(body, "<>") {
		return Segment{}, fmt.Errorf("malformed variable %q", token)
	}

	expr, name := "", body
	if i := strings.LastIndexByte(body, ':'); i >= 0 {
		expr, name = body[:i], body[i+1:]
	}

	name = strings.TrimSpace(name)
	if !validName(name) || name == RemainingKey {
		return Segment{}, fmt.Errorf("invalid variable name %q", name)
	}

	c, err := parseConverter(expr)
	if err != nil {
		return Segment{}, err
	}

	return Segment{Variable: &Variable{Name: name, Converter: c}}, nil
}

// Pattern returns the pattern the route was compiled from.
func (r *Route) Pattern() string { return r.pattern }

// Path returns the canonical form of the route, always starting with a slash.
func (r *Route) Path() string { return r.path }

func (r *Route) String() string { return r.path }

// Segments returns the segments of the route. The returned slice must not be
// modified.
func (r *Route) Segments() []Segment { return r.segments }

// Variables returns the variable names in declaration order.
func (r *Route) Variables() []string { return r.variables }

// HasVariables tells whether the route declares at least one variable.
func (r *Route) HasVariables() bool { return len(r.variables) > 0 }

// Level returns the number of non-empty path segments.
func (r *Route) Level() int { return len(r.segments) }

// AppendSlash tells whether the route requires a trailing slash.
func (r *Route) AppendSlash() bool { return r.appendSlash }

// IsLeaf tells whether no routes can be appended to the route.
func (r *Route) IsLeaf() bool { return !r.appendSlash }

// IsRoot tells whether the route matches only "/".
func (r *Route) IsRoot() bool { return len(r.segments) == 0 }

// Equal tells whether two routes have the same canonical form.
func (r *Route) Equal(other *Route) bool {
	return r != nil && other != nil && r.path == other.path
}

// Prefix returns the non-leaf route made of the first n segments.
func (r *Route) Prefix(n int) *Route {
	if n < 0 {
		n = 0
	}

	if n > len(r.segments) {
		n = len(r.segments)
	}

	return newRoute(r.segments[:n:n], true)
}

// Parent returns the route with the last segment stripped, or nil for the
// root route.
func (r *Route) Parent() *Route {
	if len(r.segments) == 0 {
		return nil
	}

	return r.Prefix(len(r.segments) - 1)
}

func splitPath(path string) (tokens []string, trailing bool, ok bool) {
	p := strings.TrimLeft(path, "/")
	if p == "" {
		return nil, false, true
	}

	trailing = strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")
	tokens = strings.Split(p, "/")
	for _, t := range tokens {
		if t == "" {
			return nil, false, false
		}
	}

	return tokens, trailing, true
}

// Match matches path against the route. The returned values contain the
// typed value of each variable. When the route is not a leaf, paths with
// additional trailing segments match too, and the additional part is
// reported under RemainingKey. A failed match never returns an error.
func (r *Route) Match(path string) (Values, bool) {
	tokens, trailing, ok := splitPath(path)
	if !ok || len(tokens) < len(r.segments) {
		return nil, false
	}

	values := make(Values, len(r.variables))
	for i, s := range r.segments {
		if s.Variable == nil {
			if tokens[i] != s.Literal {
				return nil, false
			}

			continue
		}

		v, ok := s.Variable.Converter.Parse(tokens[i])
		if !ok {
			return nil, false
		}

		values[s.Variable.Name] = v
	}

	rest := tokens[len(r.segments):]
	if len(rest) == 0 {
		if len(r.segments) > 0 && r.appendSlash != trailing {
			return nil, false
		}

		return values, true
	}

	if r.IsLeaf() {
		return nil, false
	}

	remaining := strings.Join(rest, "/")
	if trailing {
		remaining += "/"
	}

	values[RemainingKey] = remaining
	return values, true
}

// BuildURL returns the URL of the route with every variable substituted by
// its value. Routes compiled from a relative pattern build a relative URL.
func (r *Route) BuildURL(values Values) (string, error) {
	u, err := r.BuildPath(values)
	if err != nil || !r.relative {
		return u, err
	}

	return u[1:], nil
}

// BuildPath is like BuildURL, but it always returns an absolute path.
func (r *Route) BuildPath(values Values) (string, error) {
	b := bytebufferpool.Get()
	defer bytebufferpool.Put(b)

	b.WriteByte('/')
	for i, s := range r.segments {
		if i > 0 {
			b.WriteByte('/')
		}

		if s.Variable == nil {
			b.WriteString(s.Literal)
			continue
		}

		v, ok := values[s.Variable.Name]
		if !ok {
			return "", &MissingVariableError{Route: r.path, Name: s.Variable.Name}
		}

		f, err := s.Variable.Converter.Format(v)
		if err != nil {
			return "", &ValueError{Route: r.path, Name: s.Variable.Name, Value: v, Err: err}
		}

		b.WriteString(f)
	}

	if r.appendSlash && len(r.segments) > 0 {
		b.WriteByte('/')
	}

	return b.String(), nil
}
