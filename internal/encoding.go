package internal

import (
	"sync"
	"unicode/utf8"
)

// IsSpace reports whether the character is a JSON whitespace character
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// IsDigit reports whether the character is a digit
func IsDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsSeparator reports whether c may legally follow a scalar value
func IsSeparator(c byte) bool {
	return IsSpace(c) || c == ',' || c == ']' || c == '}' || c == ':'
}

// IsIdentifierChar reports whether c would continue an unquoted word such as
// a literal, used to reject input like "truex" or "nullify".
func IsIdentifierChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || IsDigit(c) || c == '_' || c >= utf8.RuneSelf
}

// HexValue returns the value of a hexadecimal digit or -1
func HexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// Output escape classes for the first 128 code points.
const (
	EscapeNone     = 0  // written as-is
	EscapeStandard = -1 // written as \u00XX
)

// outputEscapes maps ASCII characters to their escape class. A positive value
// is the character following the backslash in a two-character escape.
var outputEscapes = func() [128]int8 {
	var table [128]int8
	for i := 0; i < 0x20; i++ {
		table[i] = EscapeStandard
	}
	table['"'] = '"'
	table['\\'] = '\\'
	table['\b'] = 'b'
	table['\t'] = 't'
	table['\f'] = 'f'
	table['\n'] = 'n'
	table['\r'] = 'r'
	return table
}()

// OutputEscape returns the escape class of an ASCII character
func OutputEscape(c byte) int8 {
	if c >= utf8.RuneSelf {
		return EscapeNone
	}
	return outputEscapes[c]
}

// hexChars contains hex characters for escape sequences
var hexChars = [16]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f',
}

// AppendEscaped appends s to buf with JSON string escaping applied. When
// escapeNonASCII is set every rune above 0x7F is written as \uXXXX, using a
// surrogate pair outside the basic multilingual plane.
func AppendEscaped(buf []byte, s string, escapeNonASCII bool) []byte {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			esc := outputEscapes[c]
			if esc == EscapeNone {
				i++
				continue
			}
			buf = append(buf, s[start:i]...)
			if esc == EscapeStandard {
				buf = AppendUnicodeEscape(buf, rune(c))
			} else {
				buf = append(buf, '\\', byte(esc))
			}
			i++
			start = i
			continue
		}
		if !escapeNonASCII {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		buf = append(buf, s[start:i]...)
		if r > 0xFFFF {
			r -= 0x10000
			buf = AppendUnicodeEscape(buf, 0xD800+(r>>10))
			buf = AppendUnicodeEscape(buf, 0xDC00+(r&0x3FF))
		} else {
			buf = AppendUnicodeEscape(buf, r)
		}
		i += size
		start = i
	}
	return append(buf, s[start:]...)
}

// AppendUnicodeEscape appends a \uXXXX escape for a 16-bit code unit
func AppendUnicodeEscape(buf []byte, r rune) []byte {
	return append(buf, '\\', 'u',
		hexChars[(r>>12)&0xF], hexChars[(r>>8)&0xF],
		hexChars[(r>>4)&0xF], hexChars[r&0xF])
}

// Buffer pool for generator output
var byteSlicePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// GetByteSlice gets a byte slice from the pool
func GetByteSlice() *[]byte {
	b := byteSlicePool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// PutByteSlice returns a byte slice to the pool
func PutByteSlice(b *[]byte) {
	if b == nil {
		return
	}
	const maxByteSliceCap = 32 * 1024 // 32KB
	const minByteSliceCap = 256
	c := cap(*b)
	if c >= minByteSliceCap && c <= maxByteSliceCap {
		*b = (*b)[:0]
		byteSlicePool.Put(b)
	}
}
