package jsontoken

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelper provides assertion utilities for tokenizer tests
type TestHelper struct {
	t *testing.T
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(expected, actual any, msgAndArgs ...any) {
	h.t.Helper()
	assert.Equal(h.t, expected, actual, msgAndArgs...)
}

// AssertNoError checks that error is nil
func (h *TestHelper) AssertNoError(err error, msgAndArgs ...any) {
	h.t.Helper()
	assert.NoError(h.t, err, msgAndArgs...)
}

// RequireNoError stops the test if err is not nil
func (h *TestHelper) RequireNoError(err error, msgAndArgs ...any) {
	h.t.Helper()
	require.NoError(h.t, err, msgAndArgs...)
}

// AssertError checks that error is not nil
func (h *TestHelper) AssertError(err error, msgAndArgs ...any) {
	h.t.Helper()
	assert.Error(h.t, err, msgAndArgs...)
}

// AssertErrorIs checks that err matches target in its chain
func (h *TestHelper) AssertErrorIs(err, target error, msgAndArgs ...any) {
	h.t.Helper()
	assert.ErrorIs(h.t, err, target, msgAndArgs...)
}

// AssertErrorContains checks that error message contains expected text
func (h *TestHelper) AssertErrorContains(err error, contains string, msgAndArgs ...any) {
	h.t.Helper()
	assert.ErrorContains(h.t, err, contains, msgAndArgs...)
}

// AssertTrue checks that condition is true
func (h *TestHelper) AssertTrue(condition bool, msgAndArgs ...any) {
	h.t.Helper()
	assert.True(h.t, condition, msgAndArgs...)
}

// AssertFalse checks that condition is false
func (h *TestHelper) AssertFalse(condition bool, msgAndArgs ...any) {
	h.t.Helper()
	assert.False(h.t, condition, msgAndArgs...)
}

// AssertNotNil checks that value is not nil
func (h *TestHelper) AssertNotNil(value any, msgAndArgs ...any) {
	h.t.Helper()
	assert.NotNil(h.t, value, msgAndArgs...)
}

// AssertNil checks that value is nil
func (h *TestHelper) AssertNil(value any, msgAndArgs ...any) {
	h.t.Helper()
	assert.Nil(h.t, value, msgAndArgs...)
}

// tokenize reads every token of input, failing the test on error
func tokenize(t *testing.T, input string, cfg *Config) []Token {
	t.Helper()
	p, err := NewParserString(input, cfg)
	require.NoError(t, err)
	defer p.Close()

	var tokens []Token
	for {
		tok, err := p.NextToken()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok == TokenEOF {
			return tokens
		}
	}
}

// tokenizeError reads tokens until the first error and returns it
func tokenizeError(t *testing.T, input string, cfg *Config) error {
	t.Helper()
	p, err := NewParserString(input, cfg)
	require.NoError(t, err)
	defer p.Close()

	for {
		tok, err := p.NextToken()
		if err != nil {
			return err
		}
		if tok == TokenEOF {
			t.Fatalf("expected an error for %q, reached end of input", input)
			return nil
		}
	}
}

// parserAt returns a parser positioned on the first token of input
func parserAt(t *testing.T, input string) *Parser {
	t.Helper()
	p, err := NewParserString(input, nil)
	require.NoError(t, err)
	_, err = p.NextToken()
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// oneByteReader returns at most one byte per Read, exercising buffer
// boundaries everywhere
type oneByteReader struct {
	data []byte
}

func (r *oneByteReader) Read(b []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	if len(b) == 0 {
		return 0, nil
	}
	b[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

// failingReader returns data and then a non-EOF error
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(b []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(b, r.data)
	r.data = r.data[n:]
	return n, nil
}

var errReadFailed = errors.New("read failed")
