package jsontoken

// Token identifies the kind of the lexical unit the parser is positioned on.
type Token uint8

const (
	// TokenNotAvailable is the state before the first NextToken call and
	// after Close.
	TokenNotAvailable Token = iota
	TokenStartObject
	TokenEndObject
	TokenStartArray
	TokenEndArray
	TokenFieldName
	TokenString
	TokenInt
	TokenFloat
	TokenBool
	TokenNull
	// TokenEOF is returned once the input is exhausted at the root level.
	TokenEOF
)

var tokenNames = [...]string{
	TokenNotAvailable: "not-available",
	TokenStartObject:  "start-object",
	TokenEndObject:    "end-object",
	TokenStartArray:   "start-array",
	TokenEndArray:     "end-array",
	TokenFieldName:    "field-name",
	TokenString:       "string",
	TokenInt:          "int",
	TokenFloat:        "float",
	TokenBool:         "bool",
	TokenNull:         "null",
	TokenEOF:          "eof",
}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "unknown"
}

// IsStructStart reports whether t opens an array or object
func (t Token) IsStructStart() bool {
	return t == TokenStartObject || t == TokenStartArray
}

// IsStructEnd reports whether t closes an array or object
func (t Token) IsStructEnd() bool {
	return t == TokenEndObject || t == TokenEndArray
}

// IsNumeric reports whether t is an integer or float value
func (t Token) IsNumeric() bool {
	return t == TokenInt || t == TokenFloat
}

// IsScalarValue reports whether t is a non-structural value
func (t Token) IsScalarValue() bool {
	switch t {
	case TokenString, TokenInt, TokenFloat, TokenBool, TokenNull:
		return true
	}
	return false
}

// NumberType identifies the Go representation a numeric token maps to.
type NumberType uint8

const (
	NumberUnknown NumberType = iota
	NumberInt32
	NumberInt64
	NumberBigInt
	NumberFloat64
	NumberBigDecimal
)

func (n NumberType) String() string {
	switch n {
	case NumberInt32:
		return "int32"
	case NumberInt64:
		return "int64"
	case NumberBigInt:
		return "big.Int"
	case NumberFloat64:
		return "float64"
	case NumberBigDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}
