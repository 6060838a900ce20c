package jsontoken

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cybergodev/jsontoken/internal"
)

// Boundary values for narrowing conversions, computed once so range checks
// never re-derive them at the exact boundary.
var (
	bigMinInt32 = big.NewInt(math.MinInt32)
	bigMaxInt32 = big.NewInt(math.MaxInt32)
	bigMinInt64 = big.NewInt(math.MinInt64)
	bigMaxInt64 = big.NewInt(math.MaxInt64)
)

const (
	minInt32Float = float64(math.MinInt32)
	maxInt32Float = float64(math.MaxInt32)
	// float64(math.MaxInt64) rounds up to 2^63, which is itself out of range
	minInt64Float = float64(math.MinInt64)
	maxInt64Float = float64(math.MaxInt64)

	minInt32Text = "-2147483648"
	maxInt32Text = "2147483647"
	minInt64Text = "-9223372036854775808"
	maxInt64Text = "9223372036854775807"

	// Most digits an exact integer conversion will materialize
	maxBigIntDigits = 100_000
	minBigIntText   = "-1e100000"
	maxBigIntText   = "1e100000"

	// decimal.Decimal keeps its exponent in an int32
	minDecimalText = "-1e2147483647"
	maxDecimalText = "1e2147483647"

	// A float token with at most this many digits truncates to the same
	// integer from its float64 value as from its text.
	maxExactFloatDigits = 15
)

var errNoNumber = fmt.Errorf("%w: no numeric token", ErrWrongToken)

// numKind tags which representation a numericValue holds
type numKind uint8

const (
	numUnset numKind = iota
	numInt32
	numInt64
	numBigInt
	numFloat64
	numDecimal
)

// numericValue holds exactly one live representation, selected by kind
type numericValue struct {
	kind numKind
	i64  int64 // numInt32, numInt64
	f64  float64
	big  *big.Int // never mutated once stored
	dec  decimal.Decimal
}

// NumericToken is the text of one numeric token together with its lazily
// computed value. Conversions are performed on first request and cached; the
// cache lives exactly as long as the NumericToken, so a parser builds a new
// one for every token it produces.
//
// A NumericToken is not safe for concurrent use.
type NumericToken struct {
	text  string
	desc  NumericTextDescriptor
	value numericValue
}

// ParseNumericToken classifies text as a JSON number and returns a token for
// it. No conversion is performed until one is requested.
func ParseNumericToken(text string) (*NumericToken, error) {
	desc, err := Classify(text, false)
	if err != nil {
		return nil, err
	}
	return &NumericToken{text: text, desc: desc}, nil
}

// Text returns the token text exactly as it appeared in the input
func (n *NumericToken) Text() string {
	return n.text
}

// Descriptor returns the shape of the token text
func (n *NumericToken) Descriptor() NumericTextDescriptor {
	return n.desc
}

// IsInteger reports whether the token is an integer literal
func (n *NumericToken) IsInteger() bool {
	return n.desc.IsInteger()
}

// ensure performs the initial parse. expected is the representation the
// caller asked for first; it only matters for float tokens.
func (n *NumericToken) ensure(expected numKind) error {
	if n.value.kind != numUnset {
		return nil
	}
	if n.text == "" {
		return errNoNumber
	}
	if n.desc.IsInteger() {
		return n.parseInteger()
	}
	return n.parseFloating(expected)
}

func (n *NumericToken) parseInteger() error {
	neg := n.desc.Negative
	digits := n.text
	if neg {
		digits = digits[1:]
	}

	switch length := n.desc.IntDigits; {
	case length <= internal.MaxInt32Digits:
		n.value = numericValue{kind: numInt32, i64: int64(internal.ParseInt32(digits, neg))}

	case length <= internal.MaxInt64Digits:
		v := internal.ParseInt64(digits, neg)
		// Ten-digit magnitudes straddle the int32 range depending on sign;
		// eleven or more never fit.
		if length == 10 && v >= math.MinInt32 && v <= math.MaxInt32 {
			n.value = numericValue{kind: numInt32, i64: v}
		} else {
			n.value = numericValue{kind: numInt64, i64: v}
		}

	case internal.InLongRange(digits, neg):
		v, err := strconv.ParseInt(n.text, 10, 64)
		if err != nil {
			return n.malformed("int64", err)
		}
		n.value = numericValue{kind: numInt64, i64: v}

	default:
		bi, ok := new(big.Int).SetString(n.text, 10)
		if !ok {
			return n.malformed("big.Int", nil)
		}
		n.value = numericValue{kind: numBigInt, big: bi}
	}
	return nil
}

func (n *NumericToken) parseFloating(expected numKind) error {
	if expected == numDecimal && !n.desc.NonNumeric {
		// An exponent beyond the decimal scale falls back to float64
		if d, err := decimal.NewFromString(n.text); err == nil {
			n.value = numericValue{kind: numDecimal, dec: d}
			return nil
		}
	}

	f, err := strconv.ParseFloat(n.text, 64)
	// Out-of-range magnitudes saturate to ±Inf or zero
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return n.malformed("float64", err)
	}
	n.value = numericValue{kind: numFloat64, f64: f}
	return nil
}

// Int32 returns the value as an int32. Fractions are truncated toward zero;
// values outside the int32 range fail with a *NumericOverflowError.
func (n *NumericToken) Int32() (int32, error) {
	if err := n.ensure(numInt32); err != nil {
		return 0, err
	}

	v := n.value
	switch v.kind {
	case numInt32:
		return int32(v.i64), nil
	case numInt64:
		if v.i64 < math.MinInt32 || v.i64 > math.MaxInt32 {
			return 0, n.overflowInt32()
		}
		return int32(v.i64), nil
	case numBigInt:
		return n.bigToInt32(v.big, nil)
	case numFloat64:
		if n.floatNeedsText() {
			return n.bigToInt32(n.textInteger())
		}
		if math.IsNaN(v.f64) || v.f64 < minInt32Float || v.f64 > maxInt32Float {
			return 0, n.overflowInt32()
		}
		return int32(v.f64), nil
	case numDecimal:
		return n.bigToInt32(n.truncate(v.dec))
	}
	return 0, errNoNumber
}

// Int64 returns the value as an int64. Fractions are truncated toward zero;
// values outside the int64 range fail with a *NumericOverflowError.
func (n *NumericToken) Int64() (int64, error) {
	if err := n.ensure(numInt64); err != nil {
		return 0, err
	}

	v := n.value
	switch v.kind {
	case numInt32, numInt64:
		return v.i64, nil
	case numBigInt:
		return n.bigToInt64(v.big, nil)
	case numFloat64:
		if n.floatNeedsText() {
			return n.bigToInt64(n.textInteger())
		}
		if math.IsNaN(v.f64) || v.f64 < minInt64Float || v.f64 >= maxInt64Float {
			return 0, n.overflowInt64()
		}
		return int64(v.f64), nil
	case numDecimal:
		return n.bigToInt64(n.truncate(v.dec))
	}
	return 0, errNoNumber
}

// BigInt returns the value as a new *big.Int, truncating any fraction.
// Float tokens are truncated from their exact text. It fails for NaN and the
// infinities, and with a *NumericOverflowError for magnitudes of 1e100000 and
// beyond.
func (n *NumericToken) BigInt() (*big.Int, error) {
	if err := n.ensure(numBigInt); err != nil {
		return nil, err
	}

	v := n.value
	switch v.kind {
	case numInt32, numInt64:
		return big.NewInt(v.i64), nil
	case numBigInt:
		return new(big.Int).Set(v.big), nil
	case numFloat64:
		if n.desc.NonNumeric {
			return nil, n.malformed("big.Int", nil)
		}
		return n.textInteger()
	case numDecimal:
		return n.truncate(v.dec)
	}
	return nil, errNoNumber
}

// Float64 returns the value as a float64. It never fails for a valid token:
// magnitudes beyond the float64 range become ±Inf. Arbitrary-precision values
// are rounded once, directly from the exact value.
func (n *NumericToken) Float64() (float64, error) {
	if err := n.ensure(numFloat64); err != nil {
		return 0, err
	}

	v := n.value
	switch v.kind {
	case numDecimal:
		// Correctly rounded from the text; out-of-range saturates
		f, _ := strconv.ParseFloat(n.text, 64)
		return f, nil
	case numBigInt:
		f, _ := new(big.Float).SetInt(v.big).Float64()
		return f, nil
	case numInt32, numInt64:
		return float64(v.i64), nil
	case numFloat64:
		return v.f64, nil
	}
	return 0, errNoNumber
}

// BigDecimal returns the exact decimal value of the token. Exponents outside
// the int32 range fail with a *NumericOverflowError.
func (n *NumericToken) BigDecimal() (decimal.Decimal, error) {
	if err := n.ensure(numDecimal); err != nil {
		return decimal.Zero, err
	}

	v := n.value
	switch v.kind {
	case numDecimal:
		return v.dec, nil
	case numFloat64:
		// Reparse the text rather than widen the rounded binary value
		d, err := n.textDecimal()
		if err != nil {
			return decimal.Zero, err
		}
		n.value = numericValue{kind: numDecimal, dec: d}
		return d, nil
	case numBigInt:
		return decimal.NewFromBigInt(v.big, 0), nil
	case numInt32, numInt64:
		return decimal.NewFromInt(v.i64), nil
	}
	return decimal.Zero, errNoNumber
}

// floatNeedsText reports whether a cached float64 may have rounded across an
// integer boundary
func (n *NumericToken) floatNeedsText() bool {
	return !n.desc.NonNumeric && n.desc.IntDigits+n.desc.FracDigits > maxExactFloatDigits
}

func (n *NumericToken) textDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.text)
	switch {
	case err == nil:
		return d, nil
	case n.desc.NonNumeric:
		return decimal.Zero, n.malformed("decimal", err)
	}
	// Valid number text only fails on an exponent outside the int32 range
	return decimal.Zero, n.overflow("decimal", minDecimalText, maxDecimalText)
}

// textInteger truncates the token text toward zero without rounding through
// float64
func (n *NumericToken) textInteger() (*big.Int, error) {
	d, err := decimal.NewFromString(n.text)
	if err == nil {
		return n.truncate(d)
	}
	// The exponent is beyond the decimal scale: the value is zero or unbounded
	f, _ := strconv.ParseFloat(n.text, 64)
	if math.IsInf(f, 0) {
		return nil, n.overflowBigInt()
	}
	return new(big.Int), nil
}

// truncate returns the integer part of d, which was parsed from the token
// text, without expanding powers of ten larger than the text itself
// requires.
func (n *NumericToken) truncate(d decimal.Decimal) (*big.Int, error) {
	exp := int(d.Exponent())
	switch {
	case d.Sign() == 0:
		return new(big.Int), nil
	case exp > 0 && exp+d.NumDigits() > maxBigIntDigits:
		return nil, n.overflowBigInt()
	case exp < 0 && -exp >= n.desc.IntDigits+n.desc.FracDigits:
		// Every digit is fractional
		return new(big.Int), nil
	}
	return d.BigInt(), nil
}

func (n *NumericToken) bigToInt32(bi *big.Int, err error) (int32, error) {
	if err != nil || bi.Cmp(bigMinInt32) < 0 || bi.Cmp(bigMaxInt32) > 0 {
		return 0, n.overflowInt32()
	}
	return int32(bi.Int64()), nil
}

func (n *NumericToken) bigToInt64(bi *big.Int, err error) (int64, error) {
	if err != nil || bi.Cmp(bigMinInt64) < 0 || bi.Cmp(bigMaxInt64) > 0 {
		return 0, n.overflowInt64()
	}
	return bi.Int64(), nil
}

// NumberType reports the natural representation of the token, parsing it if
// needed. Integer tokens report the narrowest type that holds them.
func (n *NumericToken) NumberType() (NumberType, error) {
	if err := n.ensure(numUnset); err != nil {
		return NumberUnknown, err
	}
	switch n.value.kind {
	case numInt32:
		return NumberInt32, nil
	case numInt64:
		return NumberInt64, nil
	case numBigInt:
		return NumberBigInt, nil
	case numFloat64:
		return NumberFloat64, nil
	case numDecimal:
		return NumberBigDecimal, nil
	}
	return NumberUnknown, errNoNumber
}

// Value returns the token as int32, int64, *big.Int, float64 or
// decimal.Decimal, whichever NumberType reports.
func (n *NumericToken) Value() (any, error) {
	t, err := n.NumberType()
	if err != nil {
		return nil, err
	}
	switch t {
	case NumberInt32:
		return int32(n.value.i64), nil
	case NumberInt64:
		return n.value.i64, nil
	case NumberBigInt:
		return new(big.Int).Set(n.value.big), nil
	case NumberBigDecimal:
		return n.value.dec, nil
	default:
		return n.value.f64, nil
	}
}

func (n *NumericToken) overflowInt32() error {
	return n.overflow("int32", minInt32Text, maxInt32Text)
}

func (n *NumericToken) overflowInt64() error {
	return n.overflow("int64", minInt64Text, maxInt64Text)
}

func (n *NumericToken) overflowBigInt() error {
	return n.overflow("big.Int", minBigIntText, maxBigIntText)
}

func (n *NumericToken) overflow(target, lo, hi string) error {
	return &NumericOverflowError{
		Target: target,
		Value:  describeNumber(n.text),
		Min:    lo,
		Max:    hi,
	}
}

func (n *NumericToken) malformed(target string, err error) error {
	return &MalformedNumberError{
		Target: target,
		Value:  describeNumber(n.text),
		Err:    err,
	}
}
