package internal

// Digit-string helpers for the numeric fast paths. Callers pass digits only:
// no sign, no leading zeros beyond a single "0", no fraction or exponent.

const (
	// MaxInt32Digits is the longest digit string that always fits an int32
	MaxInt32Digits = 9
	// MaxInt64Digits is the longest digit string that always fits an int64
	MaxInt64Digits = 18

	minInt64Digits = "9223372036854775808"
	maxInt64Digits = "9223372036854775807"
)

// ParseInt32 parses at most MaxInt32Digits digits; it cannot overflow.
func ParseInt32(digits string, negative bool) int32 {
	var n int32
	for i := 0; i < len(digits); i++ {
		n = n*10 + int32(digits[i]-'0')
	}
	if negative {
		return -n
	}
	return n
}

// ParseInt64 parses at most MaxInt64Digits digits; it cannot overflow.
func ParseInt64(digits string, negative bool) int64 {
	// Split so the hot loop stays in 32-bit arithmetic for the low part
	if len(digits) > MaxInt32Digits {
		split := len(digits) - MaxInt32Digits
		hi := int64(ParseInt32(digits[:split], false))
		lo := int64(ParseInt32(digits[split:], false))
		n := hi*1_000_000_000 + lo
		if negative {
			return -n
		}
		return n
	}
	return int64(ParseInt32(digits, negative))
}

// InLongRange reports whether the digit string, with the given sign, fits in
// an int64. Strings of up to MaxInt64Digits digits always do; 19-digit strings
// are compared against the boundary text; anything longer never fits.
func InLongRange(digits string, negative bool) bool {
	switch {
	case len(digits) < len(maxInt64Digits):
		return true
	case len(digits) > len(maxInt64Digits):
		return false
	}
	limit := maxInt64Digits
	if negative {
		limit = minInt64Digits
	}
	// Equal lengths and no leading zeros, so byte order is numeric order
	return digits <= limit
}
