package jsontoken

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		span     string
		negative bool
		want     NumericTextDescriptor
	}{
		{"Zero", "0", false, NumericTextDescriptor{IntDigits: 1}},
		{"Negative", "-42", false, NumericTextDescriptor{Negative: true, IntDigits: 2}},
		{"SignConsumedByCaller", "42", true, NumericTextDescriptor{Negative: true, IntDigits: 2}},
		{"Fraction", "3.14", false, NumericTextDescriptor{IntDigits: 1, FracDigits: 2}},
		{"Exponent", "1e10", false, NumericTextDescriptor{IntDigits: 1, ExpDigits: 2}},
		{"SignedExponent", "-12.5E-003", false, NumericTextDescriptor{Negative: true, IntDigits: 2, FracDigits: 1, ExpDigits: 3}},
		{"LongInteger", strings.Repeat("9", 25), false, NumericTextDescriptor{IntDigits: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.span, tt.negative)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			fromBytes, err := Classify([]byte(tt.span), tt.negative)
			require.NoError(t, err)
			assert.Equal(t, got, fromBytes)
		})
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		span     string
		negative bool
		reason   string
	}{
		{"", false, "expected digit"},
		{"-", false, "expected digit"},
		{"-1", true, "duplicate sign"},
		{"00", false, "leading zeroes"},
		{"-012", false, "leading zeroes"},
		{"1.", false, "decimal point"},
		{"1.e5", false, "decimal point"},
		{"1e", false, "exponent"},
		{"1E-", false, "exponent"},
		{"12a", false, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.span, func(t *testing.T) {
			_, err := Classify(tt.span, tt.negative)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidJSON)
			assert.ErrorIs(t, err, ErrMalformedNumber)
			assert.ErrorContains(t, err, tt.reason)

			var malformed *MalformedNumberError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "number", malformed.Target)
		})
	}
}

func TestDescriptorIsInteger(t *testing.T) {
	assert.True(t, NumericTextDescriptor{IntDigits: 3}.IsInteger())
	assert.False(t, NumericTextDescriptor{IntDigits: 1, FracDigits: 1}.IsInteger())
	assert.False(t, NumericTextDescriptor{IntDigits: 1, ExpDigits: 1}.IsInteger())
	assert.False(t, NumericTextDescriptor{NonNumeric: true}.IsInteger())
}

func TestDescribeNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Short", "12345", "12345"},
		{"AtLimit", strings.Repeat("1", 1000), strings.Repeat("1", 1000)},
		{"LongInteger", strings.Repeat("1", 1001), "[Integer with 1001 digits]"},
		{"LongNegative", "-" + strings.Repeat("1", 1200), "[Integer with 1200 digits]"},
		{"LongFloat", "1." + strings.Repeat("5", 1200), "[number with 1202 characters]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeNumber(tt.text))
		})
	}
}
