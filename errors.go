package jsontoken

import (
	"errors"
	"fmt"
)

// Core error definitions
var (
	// Numeric conversion errors
	ErrNumericOverflow = errors.New("numeric value out of range")
	ErrMalformedNumber = errors.New("malformed numeric value")

	// Input errors
	ErrInvalidJSON   = errors.New("invalid JSON format")
	ErrUnexpectedEOF = errors.New("unexpected end-of-input")
	ErrInvalidBase64 = errors.New("invalid base64 content")

	// Limit-related errors
	ErrSizeLimit  = errors.New("size limit exceeded")
	ErrDepthLimit = errors.New("depth limit exceeded")

	// State errors
	ErrParserClosed  = errors.New("parser is closed")
	ErrWrongToken    = errors.New("current token does not support operation")
	ErrGeneration    = errors.New("invalid generator state")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError represents a tokenizer error with the input location it occurred at
type ParseError struct {
	Op       string   `json:"op"`       // Operation that failed
	Location Location `json:"location"` // Where in the input
	Message  string   `json:"message"`  // Human-readable error message
	Err      error    `json:"-"`        // Underlying error
}

func (e *ParseError) Error() string {
	if e.Location.IsKnown() {
		return fmt.Sprintf("JSON %s failed at %s: %s", e.Op, e.Location, e.Message)
	}
	return fmt.Sprintf("JSON %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling
func (e *ParseError) Is(target error) bool {
	if target == nil {
		return false
	}

	if targetErr, ok := target.(*ParseError); ok {
		return e.Op == targetErr.Op && e.Err == targetErr.Err
	}

	return errors.Is(e.Err, target)
}

// NumericOverflowError reports a narrowing conversion whose source value does
// not fit the requested type.
type NumericOverflowError struct {
	Target string // "int32", "int64", "big.Int" or "decimal"
	Value  string // numeric text, abbreviated when very long
	Min    string
	Max    string
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("numeric value (%s) out of range of %s (%s - %s)", e.Value, e.Target, e.Min, e.Max)
}

// Unwrap lets errors.Is match ErrNumericOverflow
func (e *NumericOverflowError) Unwrap() error {
	return ErrNumericOverflow
}

// MalformedNumberError reports numeric text that could not be converted even
// to the most permissive representation.
type MalformedNumberError struct {
	Target string
	Value  string
	Err    error
}

func (e *MalformedNumberError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed numeric value (%s) for %s: %v", e.Value, e.Target, e.Err)
	}
	return fmt.Sprintf("malformed numeric value (%s) for %s", e.Value, e.Target)
}

// Unwrap lets errors.Is match ErrMalformedNumber
func (e *MalformedNumberError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedNumber}
	}
	return []error{ErrMalformedNumber, e.Err}
}

func newParseError(op string, loc Location, message string, err error) *ParseError {
	return &ParseError{
		Op:       op,
		Location: loc,
		Message:  message,
		Err:      err,
	}
}

func newSizeLimitError(op string, loc Location, what string, actual, limit int) *ParseError {
	return newParseError(op, loc,
		fmt.Sprintf("%s length (%d) exceeds the maximum allowed (%d)", what, actual, limit),
		ErrSizeLimit)
}

// ErrorClassifier helps classify errors for better handling
type ErrorClassifier struct{}

// NewErrorClassifier creates a new error classifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// IsUserError determines if an error is caused by the input document
func (ec *ErrorClassifier) IsUserError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidJSON),
		errors.Is(err, ErrUnexpectedEOF),
		errors.Is(err, ErrNumericOverflow),
		errors.Is(err, ErrInvalidBase64),
		errors.Is(err, ErrSizeLimit),
		errors.Is(err, ErrDepthLimit):
		return true
	default:
		return false
	}
}

// IsInternalError reports faults that upstream lexing should have prevented
func (ec *ErrorClassifier) IsInternalError(err error) bool {
	return errors.Is(err, ErrMalformedNumber)
}

// IsUsageError reports errors caused by calling the API in the wrong state
func (ec *ErrorClassifier) IsUsageError(err error) bool {
	return errors.Is(err, ErrParserClosed) || errors.Is(err, ErrWrongToken) ||
		errors.Is(err, ErrGeneration) || errors.Is(err, ErrInvalidConfig)
}

// GetErrorSuggestion provides helpful suggestions for common errors
func (ec *ErrorClassifier) GetErrorSuggestion(err error) string {
	switch {
	case errors.Is(err, ErrNumericOverflow):
		return "Use Int64Value or BigIntValue for values outside the requested range"
	case errors.Is(err, ErrMalformedNumber):
		return "Numeric text could not be converted; use Text() to inspect the raw token"
	case errors.Is(err, ErrUnexpectedEOF):
		return "Input ended inside an open array or object; check for truncation"
	case errors.Is(err, ErrInvalidJSON):
		return "Check the input for syntax errors at the reported location"
	case errors.Is(err, ErrSizeLimit):
		return "Reduce token size or raise MaxNumberLength / MaxStringLength in configuration"
	case errors.Is(err, ErrDepthLimit):
		return "Reduce nesting depth or increase MaxNestingDepth in configuration"
	case errors.Is(err, ErrInvalidBase64):
		return "Decode with the Base64Variant the producer used"
	default:
		return "Check the error message for specific details"
	}
}
