package jsontoken

import (
	"fmt"

	"github.com/cybergodev/jsontoken/internal"
)

// NumericTextDescriptor describes the shape of a numeric token's text. It is
// computed once, when the token is recognized, and drives the choice of
// conversion path.
type NumericTextDescriptor struct {
	Negative   bool `json:"negative"`
	IntDigits  int  `json:"int_digits"`
	FracDigits int  `json:"frac_digits"`
	ExpDigits  int  `json:"exp_digits"`
	// NonNumeric marks NaN and the infinities, which carry no digits.
	NonNumeric bool `json:"non_numeric,omitempty"`
}

// IsInteger reports whether the text has neither a fraction nor an exponent
func (d NumericTextDescriptor) IsInteger() bool {
	return !d.NonNumeric && d.FracDigits == 0 && d.ExpDigits == 0
}

// Classify scans span as a JSON number and returns its descriptor. span may
// begin with '-'; negative reports a sign the caller has already consumed.
// Classify does not allocate unless it fails.
func Classify[T ~string | ~[]byte](span T, negative bool) (NumericTextDescriptor, error) {
	d := NumericTextDescriptor{Negative: negative}
	i, n := 0, len(span)

	if i < n && span[i] == '-' {
		if negative {
			return d, classifyError(span, "duplicate sign")
		}
		d.Negative = true
		i++
	}

	start := i
	for i < n && internal.IsDigit(span[i]) {
		i++
	}
	d.IntDigits = i - start
	switch {
	case d.IntDigits == 0:
		return d, classifyError(span, "expected digit")
	case d.IntDigits > 1 && span[start] == '0':
		return d, classifyError(span, "leading zeroes not allowed")
	}

	if i < n && span[i] == '.' {
		i++
		start = i
		for i < n && internal.IsDigit(span[i]) {
			i++
		}
		d.FracDigits = i - start
		if d.FracDigits == 0 {
			return d, classifyError(span, "decimal point must be followed by a digit")
		}
	}

	if i < n && (span[i] == 'e' || span[i] == 'E') {
		i++
		if i < n && (span[i] == '+' || span[i] == '-') {
			i++
		}
		start = i
		for i < n && internal.IsDigit(span[i]) {
			i++
		}
		d.ExpDigits = i - start
		if d.ExpDigits == 0 {
			return d, classifyError(span, "exponent indicator not followed by a digit")
		}
	}

	if i != n {
		return d, classifyError(span, fmt.Sprintf("unexpected character (%q)", span[i]))
	}
	return d, nil
}

func classifyError[T ~string | ~[]byte](span T, reason string) error {
	return &MalformedNumberError{
		Target: "number",
		Value:  describeNumber(string(span)),
		Err:    fmt.Errorf("%w: %s", ErrInvalidJSON, reason),
	}
}

// maxDescribedLength is the longest numeric text quoted verbatim in errors
const maxDescribedLength = 1000

// describeNumber abbreviates very long numeric text for error messages
func describeNumber(text string) string {
	if len(text) <= maxDescribedLength {
		return text
	}
	digits := len(text)
	if text[0] == '-' {
		digits--
	}
	for i := 0; i < len(text); i++ {
		if c := text[i]; c == '.' || c == 'e' || c == 'E' {
			return fmt.Sprintf("[number with %d characters]", len(text))
		}
	}
	return fmt.Sprintf("[Integer with %d digits]", digits)
}
