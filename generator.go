package jsontoken

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cybergodev/jsontoken/internal"
)

// GeneratorOptions controls the output format of a Generator
type GeneratorOptions struct {
	// Indent, when non-empty, pretty-prints with one Indent per nesting level
	Indent string
	// EscapeNonASCII writes every non-ASCII character as a \u escape
	EscapeNonASCII bool
	// Base64Variant is used by WriteBinary; the zero value selects
	// DefaultBase64Variant
	Base64Variant Base64Variant
}

// DefaultGeneratorOptions returns compact, UTF-8 output options
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{Base64Variant: DefaultBase64Variant}
}

const flushThreshold = 8 * 1024

type writeScope struct {
	typ         ContextType
	count       int
	namePending bool // field name written, value not yet
}

// Generator writes JSON tokens to an io.Writer, validating that the sequence
// of calls forms well-formed JSON. Output is buffered; call Flush or Close.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	w      io.Writer
	opts   GeneratorOptions
	buf    *[]byte
	scopes []writeScope
	err    error // sticky write failure
	closed bool
}

// NewGenerator creates a generator writing to w. A nil opts selects
// DefaultGeneratorOptions.
func NewGenerator(w io.Writer, opts *GeneratorOptions) *Generator {
	if opts == nil {
		opts = DefaultGeneratorOptions()
	}
	g := &Generator{
		w:      w,
		opts:   *opts,
		buf:    internal.GetByteSlice(),
		scopes: make([]writeScope, 1, 8),
	}
	if g.opts.Base64Variant.enc == nil {
		g.opts.Base64Variant = DefaultBase64Variant
	}
	return g
}

// Depth returns the number of open arrays and objects
func (g *Generator) Depth() int {
	return len(g.scopes) - 1
}

// WriteStartObject opens an object
func (g *Generator) WriteStartObject() error {
	if err := g.beforeValue("write_start_object"); err != nil {
		return err
	}
	*g.buf = append(*g.buf, '{')
	g.scopes = append(g.scopes, writeScope{typ: ContextObject})
	return nil
}

// WriteEndObject closes the innermost object
func (g *Generator) WriteEndObject() error {
	if err := g.usable("write_end_object"); err != nil {
		return err
	}
	s := g.top()
	if s.typ != ContextObject {
		return g.stateError("write_end_object", fmt.Sprintf("current context not Object but %s", s.typ))
	}
	if s.namePending {
		return g.stateError("write_end_object", "field name written without a value")
	}
	g.closeScope('}')
	return g.flushIfFull()
}

// WriteStartArray opens an array
func (g *Generator) WriteStartArray() error {
	if err := g.beforeValue("write_start_array"); err != nil {
		return err
	}
	*g.buf = append(*g.buf, '[')
	g.scopes = append(g.scopes, writeScope{typ: ContextArray})
	return nil
}

// WriteEndArray closes the innermost array
func (g *Generator) WriteEndArray() error {
	if err := g.usable("write_end_array"); err != nil {
		return err
	}
	if s := g.top(); s.typ != ContextArray {
		return g.stateError("write_end_array", fmt.Sprintf("current context not Array but %s", s.typ))
	}
	g.closeScope(']')
	return g.flushIfFull()
}

// WriteFieldName writes an object member name; the member value must follow
func (g *Generator) WriteFieldName(name string) error {
	if err := g.usable("write_field_name"); err != nil {
		return err
	}
	s := g.top()
	if s.typ != ContextObject {
		return g.stateError("write_field_name", fmt.Sprintf("can not write a field name, expecting a value (context %s)", s.typ))
	}
	if s.namePending {
		return g.stateError("write_field_name", "can not write a field name, expecting a value")
	}
	if s.count > 0 {
		*g.buf = append(*g.buf, ',')
	}
	g.newline(g.Depth())
	g.appendQuoted(name)
	*g.buf = append(*g.buf, ':')
	if g.opts.Indent != "" {
		*g.buf = append(*g.buf, ' ')
	}
	s.count++
	s.namePending = true
	return nil
}

// WriteString writes s as an escaped string value
func (g *Generator) WriteString(s string) error {
	if err := g.beforeValue("write_string"); err != nil {
		return err
	}
	g.appendQuoted(s)
	return g.flushIfFull()
}

// WriteInt32 writes an int32 value
func (g *Generator) WriteInt32(v int32) error {
	return g.WriteInt64(int64(v))
}

// WriteInt64 writes an int64 value
func (g *Generator) WriteInt64(v int64) error {
	if err := g.beforeValue("write_number"); err != nil {
		return err
	}
	*g.buf = strconv.AppendInt(*g.buf, v, 10)
	return g.flushIfFull()
}

// WriteBigInt writes v in decimal notation; a nil v is written as null
func (g *Generator) WriteBigInt(v *big.Int) error {
	if v == nil {
		return g.WriteNull()
	}
	if err := g.beforeValue("write_number"); err != nil {
		return err
	}
	*g.buf = v.Append(*g.buf, 10)
	return g.flushIfFull()
}

// WriteFloat64 writes f in the shortest form that round-trips. NaN and the
// infinities have no JSON number form and are written as quoted strings.
func (g *Generator) WriteFloat64(f float64) error {
	if err := g.beforeValue("write_number"); err != nil {
		return err
	}
	switch {
	case math.IsNaN(f):
		*g.buf = append(*g.buf, `"NaN"`...)
	case math.IsInf(f, 1):
		*g.buf = append(*g.buf, `"Infinity"`...)
	case math.IsInf(f, -1):
		*g.buf = append(*g.buf, `"-Infinity"`...)
	default:
		*g.buf = appendFloat(*g.buf, f)
	}
	return g.flushIfFull()
}

// WriteDecimal writes d in plain notation, keeping every digit
func (g *Generator) WriteDecimal(d decimal.Decimal) error {
	if err := g.beforeValue("write_number"); err != nil {
		return err
	}
	*g.buf = append(*g.buf, d.String()...)
	return g.flushIfFull()
}

// WriteNumberText writes text verbatim as a number after checking that it is
// a valid JSON number
func (g *Generator) WriteNumberText(text string) error {
	if _, err := Classify(text, false); err != nil {
		return newParseError("write_number", Location{}, err.Error(), fmt.Errorf("%w: %w", ErrGeneration, err))
	}
	if err := g.beforeValue("write_number"); err != nil {
		return err
	}
	*g.buf = append(*g.buf, text...)
	return g.flushIfFull()
}

// WriteBool writes true or false
func (g *Generator) WriteBool(v bool) error {
	if err := g.beforeValue("write_boolean"); err != nil {
		return err
	}
	*g.buf = strconv.AppendBool(*g.buf, v)
	return nil
}

// WriteNull writes null
func (g *Generator) WriteNull() error {
	if err := g.beforeValue("write_null"); err != nil {
		return err
	}
	*g.buf = append(*g.buf, "null"...)
	return nil
}

// WriteBinary writes data as a base64 string using the configured variant
func (g *Generator) WriteBinary(data []byte) error {
	if err := g.beforeValue("write_binary"); err != nil {
		return err
	}
	tmp := internal.GetByteSlice()
	*tmp = g.opts.Base64Variant.appendEncoded(*tmp, data)
	*g.buf = append(*g.buf, '"')
	// MIME line feeds must be escaped inside the string
	*g.buf = internal.AppendEscaped(*g.buf, string(*tmp), false)
	*g.buf = append(*g.buf, '"')
	internal.PutByteSlice(tmp)
	return g.flushIfFull()
}

// CopyCurrentEvent writes the token the parser is positioned on. Numbers are
// copied by text, so no precision is lost.
func (g *Generator) CopyCurrentEvent(p *Parser) error {
	switch tok := p.CurrentToken(); tok {
	case TokenStartObject:
		return g.WriteStartObject()
	case TokenEndObject:
		return g.WriteEndObject()
	case TokenStartArray:
		return g.WriteStartArray()
	case TokenEndArray:
		return g.WriteEndArray()
	case TokenFieldName:
		return g.WriteFieldName(p.Text())
	case TokenString:
		return g.WriteString(p.Text())
	case TokenInt, TokenFloat:
		if p.num.desc.NonNumeric {
			f, err := p.Float64Value()
			if err != nil {
				return err
			}
			return g.WriteFloat64(f)
		}
		return g.WriteNumberText(p.Text())
	case TokenBool:
		return g.WriteBool(p.boolVal)
	case TokenNull:
		return g.WriteNull()
	default:
		return g.stateError("copy_current_event", fmt.Sprintf("no current event to copy (token %s)", tok))
	}
}

// CopyCurrentStructure copies the current token and, for a start marker or
// field name, everything up to the end of the value it introduces. The
// parser is left on the last copied token.
func (g *Generator) CopyCurrentStructure(p *Parser) error {
	tok := p.CurrentToken()
	if tok == TokenFieldName {
		if err := g.CopyCurrentEvent(p); err != nil {
			return err
		}
		var err error
		if tok, err = p.NextToken(); err != nil {
			return err
		}
	}
	if err := g.CopyCurrentEvent(p); err != nil {
		return err
	}
	if !tok.IsStructStart() {
		return nil
	}

	for open := 1; open > 0; {
		next, err := p.NextToken()
		if err != nil {
			return err
		}
		switch {
		case next.IsStructStart():
			open++
		case next.IsStructEnd():
			open--
		}
		if err := g.CopyCurrentEvent(p); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered output to the underlying writer
func (g *Generator) Flush() error {
	if g.err != nil {
		return g.err
	}
	if g.buf == nil || len(*g.buf) == 0 {
		return nil
	}
	_, err := g.w.Write(*g.buf)
	*g.buf = (*g.buf)[:0]
	if err != nil {
		g.err = newParseError("flush", Location{}, err.Error(), err)
		return g.err
	}
	return nil
}

// Close closes any arrays and objects left open, flushes and releases the
// buffer. The underlying writer is not closed.
func (g *Generator) Close() error {
	if g.closed {
		return nil
	}
	if g.top().namePending {
		g.closed = true
		internal.PutByteSlice(g.buf)
		g.buf = nil
		return g.stateError("close", "field name written without a value")
	}
	for g.Depth() > 0 {
		if g.top().typ == ContextArray {
			g.closeScope(']')
		} else {
			g.closeScope('}')
		}
	}
	err := g.Flush()
	g.closed = true
	internal.PutByteSlice(g.buf)
	g.buf = nil
	return err
}

func (g *Generator) top() *writeScope {
	return &g.scopes[len(g.scopes)-1]
}

func (g *Generator) usable(op string) error {
	if g.closed {
		return newParseError(op, Location{}, "generator is closed", ErrGeneration)
	}
	return g.err
}

// beforeValue validates that a value may be written and emits the separator
// preceding it
func (g *Generator) beforeValue(op string) error {
	if err := g.usable(op); err != nil {
		return err
	}
	s := g.top()
	switch s.typ {
	case ContextObject:
		if !s.namePending {
			return g.stateError(op, "can not write a value, expecting a field name")
		}
		s.namePending = false
	case ContextArray:
		if s.count > 0 {
			*g.buf = append(*g.buf, ',')
		}
		g.newline(g.Depth())
		s.count++
	default:
		if s.count > 0 {
			if g.opts.Indent != "" {
				*g.buf = append(*g.buf, '\n')
			} else {
				*g.buf = append(*g.buf, ' ')
			}
		}
		s.count++
	}
	return nil
}

func (g *Generator) closeScope(marker byte) {
	if g.top().count > 0 {
		g.newline(g.Depth() - 1)
	}
	*g.buf = append(*g.buf, marker)
	g.scopes = g.scopes[:len(g.scopes)-1]
}

func (g *Generator) newline(depth int) {
	if g.opts.Indent == "" {
		return
	}
	*g.buf = append(*g.buf, '\n')
	*g.buf = append(*g.buf, strings.Repeat(g.opts.Indent, depth)...)
}

func (g *Generator) appendQuoted(s string) {
	*g.buf = append(*g.buf, '"')
	*g.buf = internal.AppendEscaped(*g.buf, s, g.opts.EscapeNonASCII)
	*g.buf = append(*g.buf, '"')
}

func (g *Generator) flushIfFull() error {
	if len(*g.buf) < flushThreshold {
		return nil
	}
	return g.Flush()
}

func (g *Generator) stateError(op, msg string) error {
	return newParseError(op, Location{}, msg, ErrGeneration)
}

// appendFloat formats like encoding/json: plain notation for moderate
// magnitudes, exponent form with a trimmed exponent otherwise
func appendFloat(buf []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	buf = strconv.AppendFloat(buf, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(buf)
		if n >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	return buf
}
