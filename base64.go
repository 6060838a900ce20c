package jsontoken

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Base64Variant selects the alphabet, padding and line-length conventions
// used for binary data carried in JSON strings.
type Base64Variant struct {
	name          string
	enc           *base64.Encoding
	maxLineLength int // 0 means no line feeds
}

// Predefined variants
var (
	// MIME uses the standard alphabet with padding and a line feed every
	// 76 characters.
	MIME = Base64Variant{name: "MIME", enc: base64.StdEncoding, maxLineLength: 76}

	// MIMENoLinefeeds is MIME without line feeds; it is the default variant.
	MIMENoLinefeeds = Base64Variant{name: "MIME-NO-LINEFEEDS", enc: base64.StdEncoding}

	// PEM is MIME with 64-character lines.
	PEM = Base64Variant{name: "PEM", enc: base64.StdEncoding, maxLineLength: 64}

	// ModifiedForURL uses the URL-safe alphabet and no padding.
	ModifiedForURL = Base64Variant{name: "MODIFIED-FOR-URL", enc: base64.RawURLEncoding}
)

// DefaultBase64Variant is the variant used when none is specified
var DefaultBase64Variant = MIMENoLinefeeds

// Base64VariantByName returns the predefined variant with the given name
func Base64VariantByName(name string) (Base64Variant, error) {
	for _, v := range []Base64Variant{MIME, MIMENoLinefeeds, PEM, ModifiedForURL} {
		if strings.EqualFold(v.name, name) {
			return v, nil
		}
	}
	return Base64Variant{}, fmt.Errorf("%w: no Base64Variant with name %q", ErrInvalidConfig, name)
}

// Name returns the variant's name
func (v Base64Variant) Name() string {
	return v.name
}

// MaxLineLength returns the encoded line length, 0 when lines are not split
func (v Base64Variant) MaxLineLength() int {
	return v.maxLineLength
}

// UsesPadding reports whether encoded output ends with '=' padding
func (v Base64Variant) UsesPadding() bool {
	return v.encoding() != base64.RawURLEncoding
}

func (v Base64Variant) encoding() *base64.Encoding {
	if v.enc == nil {
		return base64.StdEncoding
	}
	return v.enc
}

// Encode encodes data, inserting line feeds if the variant calls for them
func (v Base64Variant) Encode(data []byte) string {
	return string(v.appendEncoded(nil, data))
}

func (v Base64Variant) appendEncoded(dst, data []byte) []byte {
	enc := v.encoding()
	encoded := enc.AppendEncode(nil, data)
	if v.maxLineLength <= 0 {
		return append(dst, encoded...)
	}
	for len(encoded) > v.maxLineLength {
		dst = append(dst, encoded[:v.maxLineLength]...)
		dst = append(dst, '\n')
		encoded = encoded[v.maxLineLength:]
	}
	return append(dst, encoded...)
}

// Decode decodes s; whitespace between characters is ignored
func (v Base64Variant) Decode(s string) ([]byte, error) {
	return v.decode([]byte(s))
}

func (v Base64Variant) decode(src []byte) ([]byte, error) {
	compact := src
	for i, c := range src {
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			compact = stripWhitespace(src, i)
			break
		}
	}

	out, err := v.encoding().AppendDecode(nil, compact)
	if err != nil {
		return nil, fmt.Errorf("%w: %s variant: %v", ErrInvalidBase64, v.name, err)
	}
	return out, nil
}

// stripWhitespace copies src without whitespace; src[from] is the first
// whitespace byte
func stripWhitespace(src []byte, from int) []byte {
	out := make([]byte, from, len(src))
	copy(out, src[:from])
	for _, c := range src[from:] {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			out = append(out, c)
		}
	}
	return out
}

func (v Base64Variant) String() string {
	return v.name
}
