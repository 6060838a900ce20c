package internal

import (
	"math"
	"strconv"
	"testing"
)

func TestParseInt32(t *testing.T) {
	tests := []struct {
		digits   string
		negative bool
		want     int32
	}{
		{"0", false, 0},
		{"0", true, 0},
		{"7", true, -7},
		{"123456789", false, 123456789},
		{"999999999", true, -999999999},
	}

	for _, tt := range tests {
		if got := ParseInt32(tt.digits, tt.negative); got != tt.want {
			t.Errorf("ParseInt32(%q, %v) = %d, want %d", tt.digits, tt.negative, got, tt.want)
		}
	}
}

func TestParseInt64(t *testing.T) {
	tests := []struct {
		digits   string
		negative bool
		want     int64
	}{
		{"42", false, 42},
		{"2147483648", false, 2147483648},
		{"2147483648", true, -2147483648},
		{"1000000000", false, 1_000_000_000},
		{"100000000000000001", false, 100000000000000001},
		{"999999999999999999", true, -999999999999999999},
	}

	for _, tt := range tests {
		if got := ParseInt64(tt.digits, tt.negative); got != tt.want {
			t.Errorf("ParseInt64(%q, %v) = %d, want %d", tt.digits, tt.negative, got, tt.want)
		}
	}
}

func TestInLongRange(t *testing.T) {
	tests := []struct {
		digits   string
		negative bool
		want     bool
	}{
		{"123", false, true},
		{"999999999999999999", false, true},
		{"9223372036854775807", false, true},
		{"9223372036854775808", false, false},
		{"9223372036854775808", true, true},
		{"9223372036854775809", true, false},
		{"1000000000000000000", false, true},
		{"10000000000000000000", false, false},
	}

	for _, tt := range tests {
		if got := InLongRange(tt.digits, tt.negative); got != tt.want {
			t.Errorf("InLongRange(%q, %v) = %v, want %v", tt.digits, tt.negative, got, tt.want)
		}
	}
}

func TestParseInt64MatchesStrconv(t *testing.T) {
	for v := int64(1); v < math.MaxInt64/10; v = v*10 + 7 {
		s := strconv.FormatInt(v, 10)
		if len(s) > MaxInt64Digits {
			break
		}
		if got := ParseInt64(s, true); got != -v {
			t.Errorf("ParseInt64(%q, true) = %d, want %d", s, got, -v)
		}
	}
}
