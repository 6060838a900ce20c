package internal

import (
	"testing"
)

func TestCharacterClasses(t *testing.T) {
	for _, c := range []byte(" \t\r\n") {
		if !IsSpace(c) || !IsSeparator(c) {
			t.Errorf("%q should be space and separator", c)
		}
	}
	for _, c := range []byte(",]}:") {
		if IsSpace(c) || !IsSeparator(c) {
			t.Errorf("%q should be a separator only", c)
		}
	}
	for _, c := range []byte("aZ9_\xc3") {
		if !IsIdentifierChar(c) {
			t.Errorf("%q should continue an identifier", c)
		}
	}
	for _, c := range []byte(" ,\"-+.") {
		if IsIdentifierChar(c) {
			t.Errorf("%q should not continue an identifier", c)
		}
	}
	if IsDigit('a') || !IsDigit('0') || !IsDigit('9') {
		t.Error("IsDigit misclassifies")
	}
}

func TestHexValue(t *testing.T) {
	tests := []struct {
		c    byte
		want int
	}{
		{'0', 0}, {'9', 9}, {'a', 10}, {'f', 15}, {'A', 10}, {'F', 15}, {'g', -1}, {'"', -1},
	}
	for _, tt := range tests {
		if got := HexValue(tt.c); got != tt.want {
			t.Errorf("HexValue(%q) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestOutputEscape(t *testing.T) {
	if OutputEscape('a') != EscapeNone {
		t.Error("'a' needs no escape")
	}
	if OutputEscape(0x01) != EscapeStandard {
		t.Error("control characters use \\u escapes")
	}
	if OutputEscape('\n') != 'n' {
		t.Error("newline uses \\n")
	}
	if OutputEscape(0xE9) != EscapeNone {
		t.Error("non-ASCII bytes are not escaped by class")
	}
}

func TestAppendEscaped(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		ascii    bool
		expected string
	}{
		{"simple", "hello", false, "hello"},
		{"quote", `hello"world`, false, `hello\"world`},
		{"backslash", `hello\world`, false, `hello\\world`},
		{"newline", "hello\nworld", false, `hello\nworld`},
		{"tab", "hello\tworld", false, `hello\tworld`},
		{"form feed", "hello\fworld", false, `hello\fworld`},
		{"backspace", "hello\bworld", false, `hello\bworld`},
		{"control char", "\x01", false, `\u0001`},
		{"unicode kept", "hello世界", false, "hello世界"},
		{"unicode escaped", "é世", true, `\u00e9\u4e16`},
		{"supplementary escaped", "😀", true, `\ud83d\ude00`},
		{"mixed escaped", "a\"é", true, `a\"\u00e9`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(AppendEscaped([]byte("prefix:"), tt.input, tt.ascii))
			if got != "prefix:"+tt.expected {
				t.Errorf("AppendEscaped(%q) = %q, want %q", tt.input, got, "prefix:"+tt.expected)
			}
		})
	}
}

func TestByteSlice(t *testing.T) {
	t.Run("Get and Put", func(t *testing.T) {
		slice := GetByteSlice()
		if slice == nil {
			t.Fatal("GetByteSlice returned nil")
		}

		*slice = append(*slice, "test"...)
		if string(*slice) != "test" {
			t.Errorf("Slice content = %q, want %q", string(*slice), "test")
		}

		PutByteSlice(slice)
	})

	t.Run("Nil slice", func(t *testing.T) {
		PutByteSlice(nil)
	})

	t.Run("Reset on reuse", func(t *testing.T) {
		slice1 := GetByteSlice()
		*slice1 = append(*slice1, "data"...)
		PutByteSlice(slice1)

		slice2 := GetByteSlice()
		if len(*slice2) != 0 {
			t.Errorf("Slice length = %d, want 0", len(*slice2))
		}
		PutByteSlice(slice2)
	})
}

func BenchmarkAppendEscaped(b *testing.B) {
	buf := make([]byte, 0, 256)
	s := "a fairly ordinary string with a \"quote\" and a newline\n"
	for i := 0; i < b.N; i++ {
		buf = AppendEscaped(buf[:0], s, false)
	}
}
