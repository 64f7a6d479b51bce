/*
Package route implements compiled URL patterns with typed variables.

A pattern is a sequence of slash separated segments. A segment is either a
literal or a variable:

	Syntax              Matches
	<name>              one or more characters, except '/'
	<string:name>       same as <name>
	<int:name>          decimal digits
	<int(4):name>       exactly four decimal digits
	<int(min=1):name>   decimal digits, value >= 1
	<int(max=9):name>   decimal digits, value <= 9
	<int(min=1,max=9):name>

A pattern with a trailing slash compiles to a non-leaf route. Other routes
can be appended to a non-leaf route with Join, which is how the absolute
route of a view is built from the routes of its ancestors:

	parent := route.MustCompile("blog/")
	child := route.MustCompile("<int(min=1):id>/")
	r, _ := route.Join(parent, child) // /blog/<int(min=1):id>/

	v, ok := r.Match("/blog/7/")      // v["id"] == 7
	u, _ := r.BuildURL(route.Values{"id": 7}) // /blog/7/

Paths are matched with or without the leading slash. When a non-leaf route
matches only the beginning of a path, the rest of it is reported under
RemainingKey.
*/
package route
