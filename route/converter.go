package route

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the converter of a variable segment.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFixedInt
	KindBoundedInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFixedInt:
		return "int-fixed-width"
	case KindBoundedInt:
		return "int-with-bounds"
	default:
		return "unknown"
	}
}

// Converter validates and formats the value of a variable segment.
type Converter interface {
	Kind() Kind

	// Parse returns the typed value of a path segment, or false when the
	// segment is not accepted.
	Parse(segment string) (any, bool)

	// Format returns the path segment representing value.
	Format(value any) (string, error)

	// String returns the canonical converter expression, e.g. int(min=1).
	String() string
}

type stringConverter struct{}

func (stringConverter) Kind() Kind     { return KindString }
func (stringConverter) String() string { return "string" }

func (stringConverter) Parse(segment string) (any, bool) {
	if segment == "" || strings.ContainsRune(segment, '/') {
		return nil, false
	}

	return segment, true
}

func (stringConverter) Format(value any) (string, error) {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	case nil:
		return "", fmt.Errorf("nil value")
	default:
		s = fmt.Sprint(v)
	}

	if s == "" {
		return "", fmt.Errorf("empty value")
	}

	if strings.ContainsRune(s, '/') {
		return "", fmt.Errorf("value contains a path separator")
	}

	return s, nil
}

// maxWidth is the number of digits of the largest int.
const maxWidth = 19

type intConverter struct {
	width          int
	min, max       int
	hasMin, hasMax bool
}

func (c *intConverter) Kind() Kind {
	switch {
	case c.width > 0:
		return KindFixedInt
	case c.hasMin || c.hasMax:
		return KindBoundedInt
	default:
		return KindInt
	}
}

func (c *intConverter) String() string {
	switch {
	case c.width > 0:
		return fmt.Sprintf("int(%d)", c.width)
	case c.hasMin && c.hasMax:
		return fmt.Sprintf("int(min=%d,max=%d)", c.min, c.max)
	case c.hasMin:
		return fmt.Sprintf("int(min=%d)", c.min)
	case c.hasMax:
		return fmt.Sprintf("int(max=%d)", c.max)
	default:
		return "int"
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func (c *intConverter) inBounds(n int) bool {
	return (!c.hasMin || n >= c.min) && (!c.hasMax || n <= c.max)
}

func (c *intConverter) Parse(segment string) (any, bool) {
	if !isDigits(segment) {
		return nil, false
	}

	if c.width > 0 && len(segment) != c.width {
		return nil, false
	}

	n, err := strconv.Atoi(segment)
	if err != nil || !c.inBounds(n) {
		return nil, false
	}

	return n, true
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case string:
		if !isDigits(v) {
			return 0, fmt.Errorf("not a decimal number: %q", v)
		}

		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func (c *intConverter) Format(value any) (string, error) {
	n, err := toInt(value)
	if err != nil {
		return "", err
	}

	if n < 0 {
		return "", fmt.Errorf("negative value %d", n)
	}

	if !c.inBounds(n) {
		return "", fmt.Errorf("value %d out of bounds %s", n, c)
	}

	if c.width == 0 {
		return strconv.Itoa(n), nil
	}

	s := fmt.Sprintf("%0*d", c.width, n)
	if len(s) != c.width {
		return "", fmt.Errorf("value %d exceeds %d digits", n, c.width)
	}

	return s, nil
}

// parseConverter parses expressions like int, int(4), int(min=1,max=9).
func parseConverter(expr string) (Converter, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "", "string":
		return stringConverter{}, nil
	case "int":
		return &intConverter{}, nil
	}

	if !strings.HasPrefix(expr, "int(") || !strings.HasSuffix(expr, ")") {
		return nil, fmt.Errorf("unknown converter %q", expr)
	}

	args := strings.TrimSpace(expr[len("int(") : len(expr)-1])
	if args == "" {
		return nil, fmt.Errorf("malformed bound expression %q", expr)
	}

	c := &intConverter{}
	if isDigits(args) {
		w, err := strconv.Atoi(args)
		if err != nil || w <= 0 || w > maxWidth {
			return nil, fmt.Errorf("malformed width in %q", expr)
		}

		c.width = w
		return c, nil
	}

	for _, arg := range strings.Split(args, ",") {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("malformed bound expression %q", expr)
		}

		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("malformed bound value in %q", expr)
		}

		switch strings.TrimSpace(key) {
		case "min":
			if c.hasMin {
				return nil, fmt.Errorf("duplicate min bound in %q", expr)
			}

			c.min, c.hasMin = n, true
		case "max":
			if c.hasMax {
				return nil, fmt.Errorf("duplicate max bound in %q", expr)
			}

			c.max, c.hasMax = n, true
		default:
			return nil, fmt.Errorf("unknown bound %q in %q", strings.TrimSpace(key), expr)
		}
	}

	if c.hasMin && c.hasMax && c.min > c.max {
		return nil, fmt.Errorf("min bound greater than max bound in %q", expr)
	}

	return c, nil
}
