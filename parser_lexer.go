package jsontoken

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cybergodev/jsontoken/internal"
)

// loadMore refills the buffer once it has been fully consumed. It returns
// false at end of input or on a read error (kept in readErr).
func (p *Parser) loadMore() bool {
	if p.eof {
		return false
	}

	p.processed += int64(p.end)
	p.pos, p.end = 0, 0

	for {
		n, err := p.r.Read(p.buf)
		p.end = n
		if err != nil {
			p.eof = true
			if !errors.Is(err, io.EOF) {
				p.readErr = err
			}
			return n > 0
		}
		if n > 0 {
			return true
		}
	}
}

// ensureAvailable tries to buffer at least n unread bytes, compacting the
// buffer first. n must not exceed the buffer size.
func (p *Parser) ensureAvailable(n int) bool {
	for p.end-p.pos < n {
		if p.eof {
			return false
		}
		if p.pos > 0 {
			copy(p.buf, p.buf[p.pos:p.end])
			p.processed += int64(p.pos)
			p.end -= p.pos
			p.pos = 0
		}
		m, err := p.r.Read(p.buf[p.end:])
		p.end += m
		if err != nil {
			p.eof = true
			if !errors.Is(err, io.EOF) {
				p.readErr = err
			}
		}
	}
	return true
}

func (p *Parser) peekByte() (byte, bool) {
	if p.pos >= p.end && !p.loadMore() {
		return 0, false
	}
	return p.buf[p.pos], true
}

func (p *Parser) readByte() (byte, bool) {
	if p.pos >= p.end && !p.loadMore() {
		return 0, false
	}
	c := p.buf[p.pos]
	p.pos++
	return c, true
}

// skipWhitespace consumes whitespace and returns the next byte unconsumed
func (p *Parser) skipWhitespace() (byte, bool) {
	for {
		if p.pos >= p.end && !p.loadMore() {
			return 0, false
		}
		c := p.buf[p.pos]
		switch c {
		case ' ', '\t', '\r':
			p.pos++
		case '\n':
			p.pos++
			p.line++
			p.lineStart = p.processed + int64(p.pos)
		default:
			return c, true
		}
	}
}

func (p *Parser) currentLocation() Location {
	off := p.processed + int64(p.pos)
	return Location{
		Offset: off,
		Line:   p.line,
		Column: int(off-p.lineStart) + 1,
	}
}

func (p *Parser) startValue(c byte) (Token, error) {
	switch c {
	case '{':
		if err := p.pushContext(ContextObject); err != nil {
			return TokenNotAvailable, err
		}
		p.pos++
		return TokenStartObject, nil
	case '[':
		if err := p.pushContext(ContextArray); err != nil {
			return TokenNotAvailable, err
		}
		p.pos++
		return TokenStartArray, nil
	case '"':
		p.pos++
		if err := p.readString(); err != nil {
			return TokenNotAvailable, err
		}
		return TokenString, nil
	case 't':
		if err := p.matchLiteral("true"); err != nil {
			return TokenNotAvailable, err
		}
		p.boolVal = true
		return TokenBool, nil
	case 'f':
		if err := p.matchLiteral("false"); err != nil {
			return TokenNotAvailable, err
		}
		return TokenBool, nil
	case 'n':
		if err := p.matchLiteral("null"); err != nil {
			return TokenNotAvailable, err
		}
		return TokenNull, nil
	case 'N', 'I', '+':
		if p.cfg.AllowNonNumericNumbers {
			return p.nonNumericNumber(c)
		}
	case '-':
		return p.readNumber()
	default:
		if internal.IsDigit(c) {
			return p.readNumber()
		}
	}

	return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
		"unexpected character %s: expected a valid value (number, String, array, object, 'true', 'false' or 'null')",
		describeChar(c)))
}

func (p *Parser) fieldName(c byte) (Token, error) {
	if c != '"' {
		return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
			"unexpected character %s: was expecting double-quote to start field name", describeChar(c)))
	}
	p.pos++
	if err := p.readString(); err != nil {
		return TokenNotAvailable, err
	}
	var name string
	if p.cfg.InternFieldNames {
		name = internal.GlobalNameTable.Intern(p.text)
	} else {
		name = string(p.text)
	}
	p.ctx.setFieldName(name)
	p.textStr, p.hasStr = name, true

	c, ok := p.skipWhitespace()
	if !ok {
		return TokenNotAvailable, p.unexpectedEOF(" after field name")
	}
	if c != ':' {
		return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
			"unexpected character %s: was expecting a colon to separate field name and value", describeChar(c)))
	}
	p.pos++
	p.valuePending = true
	return TokenFieldName, nil
}

// readString decodes a string body into p.text; the opening quote has been
// consumed.
func (p *Parser) readString() error {
	for {
		if p.pos >= p.end && !p.loadMore() {
			return p.unexpectedEOF(" in a String value")
		}

		start := p.pos
		for p.pos < p.end {
			c := p.buf[p.pos]
			if c == '"' || c == '\\' || c < 0x20 {
				break
			}
			p.pos++
		}
		p.text = append(p.text, p.buf[start:p.pos]...)
		if err := p.checkStringLength(); err != nil {
			return err
		}
		if p.pos >= p.end {
			continue
		}

		c := p.buf[p.pos]
		switch {
		case c == '"':
			p.pos++
			if !utf8.Valid(p.text) {
				return p.syntaxError("invalid UTF-8 in String value")
			}
			return nil
		case c == '\\':
			p.pos++
			if err := p.readEscape(); err != nil {
				return err
			}
			if err := p.checkStringLength(); err != nil {
				return err
			}
		default:
			return p.syntaxError(fmt.Sprintf(
				"illegal unquoted character %s: has to be escaped using backslash to be included in string value",
				describeChar(c)))
		}
	}
}

func (p *Parser) checkStringLength() error {
	if limit := p.cfg.MaxStringLength; limit > 0 && len(p.text) > limit {
		return newSizeLimitError("next_token", p.tokStart, "String value", len(p.text), limit)
	}
	return nil
}

func (p *Parser) readEscape() error {
	c, ok := p.readByte()
	if !ok {
		return p.unexpectedEOF(" in character escape sequence")
	}

	switch c {
	case '"', '\\', '/':
		p.text = append(p.text, c)
	case 'b':
		p.text = append(p.text, '\b')
	case 'f':
		p.text = append(p.text, '\f')
	case 'n':
		p.text = append(p.text, '\n')
	case 'r':
		p.text = append(p.text, '\r')
	case 't':
		p.text = append(p.text, '\t')
	case 'u':
		r, err := p.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r = p.readLowSurrogate(r)
		}
		p.text = utf8.AppendRune(p.text, r)
	default:
		return p.syntaxError(fmt.Sprintf("unrecognized character escape %s", describeChar(c)))
	}
	return nil
}

func (p *Parser) readHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		c, ok := p.readByte()
		if !ok {
			return 0, p.unexpectedEOF(" in character escape sequence")
		}
		v := internal.HexValue(c)
		if v < 0 {
			return 0, p.syntaxError(fmt.Sprintf(
				"unexpected character %s: expected a hex-digit for character escape sequence", describeChar(c)))
		}
		r = r<<4 | rune(v)
	}
	return r, nil
}

// readLowSurrogate combines a high surrogate with an immediately following
// \uXXXX low surrogate. Unpaired surrogates decode to U+FFFD and whatever
// follows is left for normal processing.
func (p *Parser) readLowSurrogate(high rune) rune {
	if high >= 0xDC00 || !p.ensureAvailable(6) {
		return utf8.RuneError
	}
	seq := p.buf[p.pos : p.pos+6]
	if seq[0] != '\\' || seq[1] != 'u' {
		return utf8.RuneError
	}
	var low rune
	for _, c := range seq[2:] {
		v := internal.HexValue(c)
		if v < 0 {
			return utf8.RuneError
		}
		low = low<<4 | rune(v)
	}
	combined := utf16.DecodeRune(high, low)
	if combined == utf8.RuneError {
		return utf8.RuneError
	}
	p.pos += 6
	return combined
}

// matchLiteral consumes word, which must not be followed by further
// identifier characters
func (p *Parser) matchLiteral(word string) error {
	for i := 0; i < len(word); i++ {
		c, ok := p.peekByte()
		if !ok {
			return p.unexpectedEOF(" in a value")
		}
		if c != word[i] {
			return p.unrecognizedToken(word[:i])
		}
		p.pos++
	}
	if c, ok := p.peekByte(); ok && internal.IsIdentifierChar(c) {
		return p.unrecognizedToken(word)
	}
	return nil
}

// unrecognizedToken reports an invalid keyword, quoting as much of it as
// can be read
func (p *Parser) unrecognizedToken(prefix string) error {
	var sb strings.Builder
	sb.WriteString(prefix)
	for sb.Len() < maxQuotedTokenLength {
		c, ok := p.peekByte()
		if !ok || !internal.IsIdentifierChar(c) {
			break
		}
		sb.WriteByte(c)
		p.pos++
	}
	return newParseError("next_token", p.tokStart, fmt.Sprintf(
		"unrecognized token '%s': was expecting (JSON String, Number, Array, Object or token 'null', 'true' or 'false')",
		sb.String()), ErrInvalidJSON)
}

const maxQuotedTokenLength = 256

// nonNumericNumber reads NaN, Infinity or +Infinity; for -Infinity the sign
// has already been consumed into p.text.
func (p *Parser) nonNumericNumber(c byte) (Token, error) {
	word := "Infinity"
	switch c {
	case 'N':
		word = "NaN"
	case '+':
		word = "+Infinity"
	}
	if err := p.matchLiteral(word); err != nil {
		return TokenNotAvailable, err
	}
	p.text = append(p.text, word...)
	p.num = NumericToken{
		text: string(p.text),
		desc: NumericTextDescriptor{Negative: c == '-', NonNumeric: true},
	}
	return TokenFloat, nil
}

// readNumber scans a numeric token into p.text and prepares p.num. Only the
// shape of the text is recorded here; conversion happens on request.
func (p *Parser) readNumber() (Token, error) {
	desc := NumericTextDescriptor{}

	if c, _ := p.peekByte(); c == '-' {
		desc.Negative = true
		p.text = append(p.text, '-')
		p.pos++
		c, ok := p.peekByte()
		if !ok {
			return TokenNotAvailable, p.unexpectedEOF(" in a Number value")
		}
		if c == 'I' && p.cfg.AllowNonNumericNumbers {
			return p.nonNumericNumber('-')
		}
		if !internal.IsDigit(c) {
			return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
				"unexpected character %s in numeric value: expected digit (0-9) to follow minus sign", describeChar(c)))
		}
	}

	n, err := p.readDigits()
	if err != nil {
		return TokenNotAvailable, err
	}
	desc.IntDigits = n
	if n > 1 && p.text[len(p.text)-n] == '0' {
		return TokenNotAvailable, p.syntaxError("invalid numeric value: leading zeroes not allowed")
	}

	if c, ok := p.peekByte(); ok && c == '.' {
		p.text = append(p.text, c)
		p.pos++
		if desc.FracDigits, err = p.readDigits(); err != nil {
			return TokenNotAvailable, err
		}
		if desc.FracDigits == 0 {
			return TokenNotAvailable, p.numberEndError("decimal point must be followed by a digit")
		}
	}

	if c, ok := p.peekByte(); ok && (c == 'e' || c == 'E') {
		p.text = append(p.text, c)
		p.pos++
		if c, ok := p.peekByte(); ok && (c == '+' || c == '-') {
			p.text = append(p.text, c)
			p.pos++
		}
		if desc.ExpDigits, err = p.readDigits(); err != nil {
			return TokenNotAvailable, err
		}
		if desc.ExpDigits == 0 {
			return TokenNotAvailable, p.numberEndError("exponent indicator not followed by a digit")
		}
	}

	if c, ok := p.peekByte(); ok && !internal.IsSeparator(c) {
		return TokenNotAvailable, p.syntaxError(fmt.Sprintf(
			"unexpected character %s: expected space separating root-level values or end of number", describeChar(c)))
	}
	if p.readErr != nil {
		return TokenNotAvailable, p.readFailure()
	}

	p.num = NumericToken{text: string(p.text), desc: desc}
	if desc.IsInteger() {
		return TokenInt, nil
	}
	return TokenFloat, nil
}

func (p *Parser) readDigits() (int, error) {
	n := 0
	for {
		if p.pos >= p.end && !p.loadMore() {
			return n, nil
		}
		c := p.buf[p.pos]
		if !internal.IsDigit(c) {
			return n, nil
		}
		p.text = append(p.text, c)
		p.pos++
		n++
		if limit := p.cfg.MaxNumberLength; limit > 0 && len(p.text) > limit {
			return n, newSizeLimitError("next_token", p.tokStart, "Number value", len(p.text), limit)
		}
	}
}

func (p *Parser) numberEndError(reason string) error {
	c, ok := p.peekByte()
	if !ok {
		return p.unexpectedEOF(" in a Number value")
	}
	return p.syntaxError(fmt.Sprintf("unexpected character %s in numeric value: %s", describeChar(c), reason))
}

func (p *Parser) syntaxError(msg string) error {
	return newParseError("next_token", p.currentLocation(), msg, ErrInvalidJSON)
}

// unexpectedEOF reports the input ending early. Inside an array or object
// the message names the unclosed scope and where it started.
func (p *Parser) unexpectedEOF(inWhat string) error {
	if p.readErr != nil {
		return p.readFailure()
	}
	msg := "unexpected end-of-input" + inWhat
	if !p.ctx.InRoot() {
		msg += fmt.Sprintf(": expected close marker for %s (start marker at %s)", p.ctx.typ, p.ctx.start)
	}
	return newParseError("next_token", p.currentLocation(), msg, ErrUnexpectedEOF)
}

func (p *Parser) readFailure() error {
	return newParseError("next_token", p.currentLocation(),
		fmt.Sprintf("reading input: %v", p.readErr), p.readErr)
}

func describeChar(c byte) string {
	switch {
	case c < 0x20 || c == 0x7f:
		return fmt.Sprintf("(CTRL-CHAR, code %d)", c)
	case c >= 0x80:
		return fmt.Sprintf("(byte 0x%02X)", c)
	default:
		return fmt.Sprintf("'%c' (code %d)", c, c)
	}
}
