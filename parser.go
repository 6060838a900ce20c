package jsontoken

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Parser is a pull-based JSON tokenizer. The caller advances with NextToken
// and may then query the current token's text or value; numeric values are
// converted lazily, on request, and only for the current token.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	cfg Config

	// Input buffer. For io.Reader input buf is refilled in place once fully
	// consumed; for in-memory input it is the caller's data.
	r       io.Reader
	buf     []byte
	pos     int
	end     int
	eof     bool
	readErr error

	processed int64 // absolute offset of buf[0]
	line      int
	lineStart int64 // absolute offset of the first byte of the current line

	ctx          *ParsingContext
	cur          Token
	tokStart     Location
	valuePending bool // a field name and colon were read; a value comes next

	// Current token payload, reset by every advance
	text    []byte
	textStr string
	hasStr  bool
	boolVal bool
	num     NumericToken

	err      error // sticky lexing failure
	closed   bool
	started  time.Time
	recorded bool
}

// NewParser creates a tokenizer reading from r. A nil cfg selects DefaultConfig.
func NewParser(r io.Reader, cfg *Config) (*Parser, error) {
	p, err := newParser(cfg)
	if err != nil {
		return nil, err
	}
	p.r = r
	p.buf = make([]byte, p.cfg.BufferSize)
	return p, nil
}

// NewParserBytes creates a tokenizer over an in-memory document. The data is
// not copied and must not be modified while the parser is in use.
func NewParserBytes(data []byte, cfg *Config) (*Parser, error) {
	p, err := newParser(cfg)
	if err != nil {
		return nil, err
	}
	p.buf = data
	p.end = len(data)
	p.eof = true
	return p, nil
}

// NewParserString creates a tokenizer over a string document
func NewParserString(s string, cfg *Config) (*Parser, error) {
	return NewParserBytes([]byte(s), cfg)
}

func newParser(cfg *Config) (*Parser, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config := *cfg
	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}
	return &Parser{
		cfg:     config,
		ctx:     newRootContext(),
		line:    1,
		started: time.Now(),
	}, nil
}

// NextToken advances to the next token. At the end of input it returns
// TokenEOF; if the input ends inside an open array or object it fails with
// ErrUnexpectedEOF naming the unclosed scope. Lexing failures are fatal:
// once NextToken has failed, every later call returns the same error.
func (p *Parser) NextToken() (Token, error) {
	if p.closed {
		return TokenNotAvailable, newParseError("next_token", Location{}, "parser is closed", ErrParserClosed)
	}
	if p.err != nil {
		return TokenNotAvailable, p.err
	}

	tok, err := p.nextToken()
	if err != nil {
		p.cur = TokenNotAvailable
		p.fail("next_token", err)
		return TokenNotAvailable, err
	}

	p.cur = tok
	if stats := p.cfg.Stats; stats != nil {
		stats.RecordToken(tok.String())
	}
	if tok == TokenEOF {
		p.recordDocument(true)
	}
	return tok, nil
}

func (p *Parser) nextToken() (Token, error) {
	// Drop the previous token's payload before anything else can observe it
	p.resetTokenState()

	if p.cur == TokenEOF {
		return TokenEOF, nil
	}

	if p.valuePending {
		p.valuePending = false
		c, ok := p.skipWhitespace()
		if !ok {
			return TokenNotAvailable, p.unexpectedEOF(" while expecting a field value")
		}
		p.tokStart = p.currentLocation()
		return p.startValue(c)
	}

	c, ok := p.skipWhitespace()
	if !ok {
		if p.readErr != nil {
			return TokenNotAvailable, p.readFailure()
		}
		if !p.ctx.InRoot() {
			return TokenNotAvailable, p.unexpectedEOF("")
		}
		p.tokStart = p.currentLocation()
		return TokenEOF, nil
	}
	p.tokStart = p.currentLocation()

	if c == ']' || c == '}' {
		return p.closeScope(c)
	}

	if p.ctx.expectComma() {
		if c != ',' {
			return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
				"unexpected character %s: was expecting comma to separate %s entries",
				describeChar(c), p.ctx.typ))
		}
		p.pos++
		c, ok = p.skipWhitespace()
		if !ok {
			return TokenNotAvailable, p.unexpectedEOF("")
		}
		p.tokStart = p.currentLocation()
		if c == ']' || c == '}' {
			if !p.cfg.AllowTrailingComma {
				return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
					"unexpected close marker '%c': trailing comma not allowed", c))
			}
			return p.closeScope(c)
		}
	}

	if p.ctx.InObject() {
		return p.fieldName(c)
	}
	return p.startValue(c)
}

func (p *Parser) resetTokenState() {
	p.text = p.text[:0]
	p.textStr = ""
	p.hasStr = false
	p.boolVal = false
	p.num = NumericToken{}
}

func (p *Parser) pushContext(typ ContextType) error {
	if limit := p.cfg.MaxNestingDepth; limit > 0 && p.ctx.depth+1 > limit {
		return newParseError("next_token", p.tokStart,
			fmt.Sprintf("nesting depth (%d) exceeds the maximum allowed (%d)", p.ctx.depth+1, limit),
			ErrDepthLimit)
	}
	p.ctx = p.ctx.createChild(typ, p.tokStart)
	return nil
}

func (p *Parser) closeScope(c byte) (Token, error) {
	if p.ctx.InRoot() {
		return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
			"unexpected close marker '%c': no open Array or Object", c))
	}

	want, tok := byte('}'), TokenEndObject
	if p.ctx.InArray() {
		want, tok = ']', TokenEndArray
	}
	if c != want {
		return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
			"unexpected close marker '%c': expected '%c' (for %s starting at %s)",
			c, want, p.ctx.typ, p.ctx.start))
	}

	p.pos++
	p.ctx = p.ctx.parent
	return tok, nil
}

// Close releases the parser. The underlying reader is not closed.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.recordDocument(p.err == nil && p.cur == TokenEOF)
	p.closed = true
	p.cur = TokenNotAvailable
	p.resetTokenState()
	return nil
}

// CurrentToken returns the token the parser is positioned on
func (p *Parser) CurrentToken() Token {
	return p.cur
}

// Context returns the innermost open scope
func (p *Parser) Context() *ParsingContext {
	return p.ctx
}

// TokenLocation returns where the current token starts
func (p *Parser) TokenLocation() Location {
	return p.tokStart
}

// CurrentLocation returns the position of the next unread byte
func (p *Parser) CurrentLocation() Location {
	return p.currentLocation()
}

// Text returns the textual form of the current token: the decoded value of
// strings and field names, the literal text of numbers, and the punctuation
// or keyword of everything else.
func (p *Parser) Text() string {
	switch p.cur {
	case TokenString, TokenFieldName:
		if !p.hasStr {
			p.textStr = string(p.text)
			p.hasStr = true
		}
		return p.textStr
	case TokenInt, TokenFloat:
		return p.num.text
	case TokenBool:
		if p.boolVal {
			return "true"
		}
		return "false"
	case TokenNull:
		return "null"
	case TokenStartObject:
		return "{"
	case TokenEndObject:
		return "}"
	case TokenStartArray:
		return "["
	case TokenEndArray:
		return "]"
	}
	return ""
}

// FieldName returns the name of the current field. For a field-name token it
// is the name itself; for a member value it is the name the value belongs to.
func (p *Parser) FieldName() (string, bool) {
	ctx := p.ctx
	if p.cur.IsStructStart() && ctx.parent != nil {
		ctx = ctx.parent
	}
	if !ctx.InObject() {
		return "", false
	}
	return ctx.FieldName()
}

// BoolValue returns the value of a boolean token
func (p *Parser) BoolValue() (bool, error) {
	if err := p.checkToken("bool_value", TokenBool); err != nil {
		return false, err
	}
	return p.boolVal, nil
}

// BinaryValue decodes the current string token as base64
func (p *Parser) BinaryValue(variant Base64Variant) ([]byte, error) {
	if err := p.checkToken("binary_value", TokenString); err != nil {
		return nil, err
	}
	data, err := variant.decode(p.text)
	if err != nil {
		wrapped := newParseError("binary_value", p.tokStart, err.Error(), err)
		p.logFailure("binary_value", wrapped)
		return nil, wrapped
	}
	return data, nil
}

// Int32Value returns the current numeric token as an int32
func (p *Parser) Int32Value() (int32, error) {
	n, err := p.numeric("int32_value")
	if err != nil {
		return 0, err
	}
	v, err := n.Int32()
	return v, p.conversionResult("int32_value", "int32", err)
}

// Int64Value returns the current numeric token as an int64
func (p *Parser) Int64Value() (int64, error) {
	n, err := p.numeric("int64_value")
	if err != nil {
		return 0, err
	}
	v, err := n.Int64()
	return v, p.conversionResult("int64_value", "int64", err)
}

// BigIntValue returns the current numeric token as a *big.Int
func (p *Parser) BigIntValue() (*big.Int, error) {
	n, err := p.numeric("big_int_value")
	if err != nil {
		return nil, err
	}
	v, err := n.BigInt()
	return v, p.conversionResult("big_int_value", "big.Int", err)
}

// Float64Value returns the current numeric token as a float64
func (p *Parser) Float64Value() (float64, error) {
	n, err := p.numeric("float64_value")
	if err != nil {
		return 0, err
	}
	v, err := n.Float64()
	return v, p.conversionResult("float64_value", "float64", err)
}

// DecimalValue returns the exact decimal value of the current numeric token
func (p *Parser) DecimalValue() (decimal.Decimal, error) {
	n, err := p.numeric("decimal_value")
	if err != nil {
		return decimal.Zero, err
	}
	v, err := n.BigDecimal()
	return v, p.conversionResult("decimal_value", "decimal", err)
}

// NumberType reports the natural representation of the current numeric token
func (p *Parser) NumberType() (NumberType, error) {
	n, err := p.numeric("number_type")
	if err != nil {
		return NumberUnknown, err
	}
	t, err := n.NumberType()
	return t, p.conversionResult("number_type", "natural", err)
}

// NumberValue returns the current numeric token in its natural representation
func (p *Parser) NumberValue() (any, error) {
	n, err := p.numeric("number_value")
	if err != nil {
		return nil, err
	}
	v, err := n.Value()
	return v, p.conversionResult("number_value", "natural", err)
}

// NumericToken returns a copy of the current numeric token, including any
// conversions already cached. The copy stays valid after the parser advances.
func (p *Parser) NumericToken() (NumericToken, error) {
	n, err := p.numeric("numeric_token")
	if err != nil {
		return NumericToken{}, err
	}
	return *n, nil
}

// Stats returns a snapshot of the configured stats collector, if any
func (p *Parser) Stats() (Stats, bool) {
	if p.cfg.Stats == nil {
		return Stats{}, false
	}
	return p.cfg.Stats.Snapshot(), true
}

// SkipChildren skips everything up to and including the end marker matching
// the current start marker. It does nothing for other tokens.
func (p *Parser) SkipChildren() error {
	if !p.cur.IsStructStart() {
		return nil
	}
	open := 1
	for open > 0 {
		tok, err := p.NextToken()
		if err != nil {
			return err
		}
		switch {
		case tok.IsStructStart():
			open++
		case tok.IsStructEnd():
			open--
		}
	}
	return nil
}

func (p *Parser) checkToken(op string, want Token) error {
	if p.closed {
		return newParseError(op, Location{}, "parser is closed", ErrParserClosed)
	}
	if p.cur != want {
		return newParseError(op, p.tokStart,
			fmt.Sprintf("current token (%s) is not %s", p.cur, want), ErrWrongToken)
	}
	return nil
}

func (p *Parser) numeric(op string) (*NumericToken, error) {
	if p.closed {
		return nil, newParseError(op, Location{}, "parser is closed", ErrParserClosed)
	}
	if !p.cur.IsNumeric() {
		return nil, newParseError(op, p.tokStart,
			fmt.Sprintf("current token (%s) not numeric, cannot use numeric value accessors", p.cur),
			ErrWrongToken)
	}
	return &p.num, nil
}

// conversionResult records a numeric conversion and attaches the token
// location to any failure. Overflow only fails the call; a malformed number
// fails the parser.
func (p *Parser) conversionResult(op, target string, err error) error {
	if stats := p.cfg.Stats; stats != nil {
		stats.RecordConversion(target)
	}
	if err == nil {
		return nil
	}
	wrapped := newParseError(op, p.tokStart, err.Error(), err)
	if errors.Is(err, ErrMalformedNumber) {
		p.fail(op, wrapped)
		return wrapped
	}
	p.logFailure(op, wrapped)
	return wrapped
}

func (p *Parser) recordDocument(success bool) {
	if p.recorded {
		return
	}
	p.recorded = true
	if stats := p.cfg.Stats; stats != nil {
		stats.RecordBytes(p.processed + int64(p.pos))
		stats.RecordDocument(time.Since(p.started), success)
	}
}
