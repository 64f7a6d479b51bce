package route

import "fmt"

// CompileError is returned when a route pattern cannot be compiled.
type CompileError struct {
	Pattern string
	Reason  string
}

func (err *CompileError) Error() string {
	return fmt.Sprintf("invalid route %q: %s", err.Pattern, err.Reason)
}

// CompositionError is returned when two routes cannot be joined.
type CompositionError struct {
	Parent string
	Child  string
	Reason string
}

func (err *CompositionError) Error() string {
	return fmt.Sprintf("cannot append route %q to %q: %s", err.Child, err.Parent, err.Reason)
}

// MissingVariableError is returned by BuildURL when a value is not provided.
type MissingVariableError struct {
	Route string
	Name  string
}

func (err *MissingVariableError) Error() string {
	return fmt.Sprintf("missing value for variable %q of route %q", err.Name, err.Route)
}

// ValueError is returned by BuildURL when a value is rejected by the
// converter of its variable.
type ValueError struct {
	Route string
	Name  string
	Value any
	Err   error
}

func (err *ValueError) Error() string {
	return fmt.Sprintf("invalid value %v for variable %q of route %q: %v", err.Value, err.Name, err.Route, err.Err)
}

func (err *ValueError) Unwrap() error { return err.Err }
