package jsontoken

import (
	"strconv"
	"strings"
)

// ContextType identifies the kind of structural scope
type ContextType uint8

const (
	ContextRoot ContextType = iota
	ContextArray
	ContextObject
)

func (t ContextType) String() string {
	switch t {
	case ContextArray:
		return "Array"
	case ContextObject:
		return "Object"
	default:
		return "root"
	}
}

// ParsingContext is one frame of the stack of open arrays and objects. The
// root frame has no parent; a child is pushed for every start marker and
// popped by the matching end marker.
type ParsingContext struct {
	typ     ContextType
	parent  *ParsingContext
	index   int // index of the current entry, -1 before the first
	depth   int
	name    string
	hasName bool
	start   Location
}

func newRootContext() *ParsingContext {
	return &ParsingContext{typ: ContextRoot, index: -1}
}

func (c *ParsingContext) createChild(typ ContextType, start Location) *ParsingContext {
	return &ParsingContext{
		typ:    typ,
		parent: c,
		index:  -1,
		depth:  c.depth + 1,
		start:  start,
	}
}

// Type returns the scope kind
func (c *ParsingContext) Type() ContextType { return c.typ }

// Parent returns the enclosing scope, nil for the root
func (c *ParsingContext) Parent() *ParsingContext { return c.parent }

// InRoot reports whether no array or object is open
func (c *ParsingContext) InRoot() bool { return c.typ == ContextRoot }

// InArray reports whether the scope is an array
func (c *ParsingContext) InArray() bool { return c.typ == ContextArray }

// InObject reports whether the scope is an object
func (c *ParsingContext) InObject() bool { return c.typ == ContextObject }

// Depth returns the number of open scopes; zero at the root
func (c *ParsingContext) Depth() int { return c.depth }

// EntryCount returns how many entries (array elements, object members or
// root values) have been started in this scope
func (c *ParsingContext) EntryCount() int { return c.index + 1 }

// CurrentIndex returns the zero-based index of the current entry, -1 before any
func (c *ParsingContext) CurrentIndex() int { return c.index }

// FieldName returns the name of the current object member
func (c *ParsingContext) FieldName() (string, bool) { return c.name, c.hasName }

// StartLocation returns where the scope's start marker appeared. The root
// scope has no start location.
func (c *ParsingContext) StartLocation() Location { return c.start }

// expectComma advances to the next entry and reports whether a comma must
// precede it
func (c *ParsingContext) expectComma() bool {
	c.index++
	return c.typ != ContextRoot && c.index > 0
}

func (c *ParsingContext) setFieldName(name string) {
	c.name = name
	c.hasName = true
}

// Path returns the JSON Pointer (RFC 6901) of the current position
func (c *ParsingContext) Path() string {
	var frames []*ParsingContext
	for ctx := c; ctx != nil && !ctx.InRoot(); ctx = ctx.parent {
		frames = append(frames, ctx)
	}

	// Scopes that have not started an entry yet contribute no segment
	var sb strings.Builder
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		switch {
		case f.InArray() && f.index >= 0:
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(f.index))
		case f.InObject() && f.hasName:
			sb.WriteByte('/')
			sb.WriteString(escapePointerToken(f.name))
		}
	}
	return sb.String()
}

func escapePointerToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
