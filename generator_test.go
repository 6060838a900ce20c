package jsontoken

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, opts *GeneratorOptions, write func(g *Generator)) string {
	t.Helper()
	var out bytes.Buffer
	g := NewGenerator(&out, opts)
	write(g)
	require.NoError(t, g.Close())
	return out.String()
}

func TestGeneratorCompact(t *testing.T) {
	helper := NewTestHelper(t)

	got := generate(t, nil, func(g *Generator) {
		helper.RequireNoError(g.WriteStartObject())
		helper.RequireNoError(g.WriteFieldName("a"))
		helper.RequireNoError(g.WriteStartArray())
		helper.RequireNoError(g.WriteInt32(1))
		helper.RequireNoError(g.WriteInt64(-9223372036854775808))
		helper.RequireNoError(g.WriteFloat64(2.5))
		helper.RequireNoError(g.WriteString("x\"y"))
		helper.RequireNoError(g.WriteBool(true))
		helper.RequireNoError(g.WriteNull())
		helper.RequireNoError(g.WriteEndArray())
		helper.RequireNoError(g.WriteFieldName("b"))
		helper.RequireNoError(g.WriteStartObject())
		helper.RequireNoError(g.WriteEndObject())
		helper.RequireNoError(g.WriteEndObject())
	})

	helper.AssertEqual(`{"a":[1,-9223372036854775808,2.5,"x\"y",true,null],"b":{}}`, got)
}

func TestGeneratorIndent(t *testing.T) {
	got := generate(t, &GeneratorOptions{Indent: "  "}, func(g *Generator) {
		require.NoError(t, g.WriteStartObject())
		require.NoError(t, g.WriteFieldName("a"))
		require.NoError(t, g.WriteStartArray())
		require.NoError(t, g.WriteInt32(1))
		require.NoError(t, g.WriteInt32(2))
		require.NoError(t, g.WriteEndArray())
		require.NoError(t, g.WriteFieldName("e"))
		require.NoError(t, g.WriteStartArray())
		require.NoError(t, g.WriteEndArray())
		require.NoError(t, g.WriteEndObject())
	})

	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"e\": []\n}"
	assert.Equal(t, want, got)
}

func TestGeneratorRootValues(t *testing.T) {
	got := generate(t, nil, func(g *Generator) {
		require.NoError(t, g.WriteInt32(1))
		require.NoError(t, g.WriteString("two"))
		require.NoError(t, g.WriteStartArray())
		require.NoError(t, g.WriteEndArray())
	})
	assert.Equal(t, `1 "two" []`, got)

	got = generate(t, &GeneratorOptions{Indent: "\t"}, func(g *Generator) {
		require.NoError(t, g.WriteInt32(1))
		require.NoError(t, g.WriteInt32(2))
	})
	assert.Equal(t, "1\n2", got)
}

func TestGeneratorNumbers(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name  string
		write func(g *Generator) error
		want  string
	}{
		{"BigInt", func(g *Generator) error { return g.WriteBigInt(huge) }, "123456789012345678901234567890"},
		{"NilBigInt", func(g *Generator) error { return g.WriteBigInt(nil) }, "null"},
		{"Decimal", func(g *Generator) error { return g.WriteDecimal(decimal.RequireFromString("0.10")) }, "0.1"},
		{"FloatSmall", func(g *Generator) error { return g.WriteFloat64(1e-7) }, "1e-7"},
		{"FloatLarge", func(g *Generator) error { return g.WriteFloat64(1e21) }, "1e+21"},
		{"FloatPlain", func(g *Generator) error { return g.WriteFloat64(123456.75) }, "123456.75"},
		{"NaN", func(g *Generator) error { return g.WriteFloat64(math.NaN()) }, `"NaN"`},
		{"PosInf", func(g *Generator) error { return g.WriteFloat64(math.Inf(1)) }, `"Infinity"`},
		{"NegInf", func(g *Generator) error { return g.WriteFloat64(math.Inf(-1)) }, `"-Infinity"`},
		{"Text", func(g *Generator) error { return g.WriteNumberText("-1.50e+10") }, "-1.50e+10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generate(t, nil, func(g *Generator) {
				require.NoError(t, tt.write(g))
			})
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("InvalidText", func(t *testing.T) {
		g := NewGenerator(&bytes.Buffer{}, nil)
		defer g.Close()
		for _, text := range []string{"01", "1.", "NaN", "", "abc"} {
			assert.ErrorIs(t, g.WriteNumberText(text), ErrGeneration, "text %q", text)
		}
	})
}

func TestGeneratorEscaping(t *testing.T) {
	s := "tab\there\u0001é😀"

	got := generate(t, nil, func(g *Generator) {
		require.NoError(t, g.WriteString(s))
	})
	assert.Equal(t, `"tab\there\u0001é😀"`, got)

	got = generate(t, &GeneratorOptions{EscapeNonASCII: true}, func(g *Generator) {
		require.NoError(t, g.WriteString(s))
	})
	assert.Equal(t, `"tab\there\u0001\u00e9\ud83d\ude00"`, got)
}

func TestGeneratorBinary(t *testing.T) {
	got := generate(t, nil, func(g *Generator) {
		require.NoError(t, g.WriteBinary([]byte("hello")))
	})
	assert.Equal(t, `"aGVsbG8="`, got)

	got = generate(t, &GeneratorOptions{Base64Variant: ModifiedForURL}, func(g *Generator) {
		require.NoError(t, g.WriteBinary([]byte("hello")))
	})
	assert.Equal(t, `"aGVsbG8"`, got)

	// MIME line feeds are escaped inside the string
	data := bytes.Repeat([]byte{1}, 60)
	got = generate(t, &GeneratorOptions{Base64Variant: MIME}, func(g *Generator) {
		require.NoError(t, g.WriteBinary(data))
	})
	assert.Contains(t, got, `\n`)
	assert.NotContains(t, got, "\n")

	p := parserAt(t, got)
	decoded, err := p.BinaryValue(MIME)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestGeneratorStateErrors(t *testing.T) {
	tests := []struct {
		name  string
		write func(g *Generator) error
	}{
		{"FieldNameAtRoot", func(g *Generator) error { return g.WriteFieldName("a") }},
		{"FieldNameInArray", func(g *Generator) error {
			_ = g.WriteStartArray()
			return g.WriteFieldName("a")
		}},
		{"ValueWithoutName", func(g *Generator) error {
			_ = g.WriteStartObject()
			return g.WriteInt32(1)
		}},
		{"TwoNames", func(g *Generator) error {
			_ = g.WriteStartObject()
			_ = g.WriteFieldName("a")
			return g.WriteFieldName("b")
		}},
		{"EndArrayInObject", func(g *Generator) error {
			_ = g.WriteStartObject()
			return g.WriteEndArray()
		}},
		{"EndObjectAtRoot", func(g *Generator) error { return g.WriteEndObject() }},
		{"EndObjectAfterName", func(g *Generator) error {
			_ = g.WriteStartObject()
			_ = g.WriteFieldName("a")
			return g.WriteEndObject()
		}},
		{"WriteAfterClose", func(g *Generator) error {
			_ = g.Close()
			return g.WriteNull()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&bytes.Buffer{}, nil)
			err := tt.write(g)
			assert.ErrorIs(t, err, ErrGeneration)
		})
	}
}

func TestGeneratorClose(t *testing.T) {
	t.Run("ClosesOpenScopes", func(t *testing.T) {
		got := generate(t, nil, func(g *Generator) {
			require.NoError(t, g.WriteStartObject())
			require.NoError(t, g.WriteFieldName("a"))
			require.NoError(t, g.WriteStartArray())
			require.NoError(t, g.WriteInt32(1))
			assert.Equal(t, 2, g.Depth())
		})
		assert.Equal(t, `{"a":[1]}`, got)
	})

	t.Run("PendingName", func(t *testing.T) {
		g := NewGenerator(&bytes.Buffer{}, nil)
		require.NoError(t, g.WriteStartObject())
		require.NoError(t, g.WriteFieldName("a"))
		assert.ErrorIs(t, g.Close(), ErrGeneration)
		assert.NoError(t, g.Close())
	})

	t.Run("WriteFailure", func(t *testing.T) {
		errWrite := errors.New("disk full")
		g := NewGenerator(failingWriter{errWrite}, nil)
		require.NoError(t, g.WriteString("x"))
		assert.ErrorIs(t, g.Flush(), errWrite)
		// Failures are sticky
		assert.ErrorIs(t, g.WriteNull(), errWrite)
		assert.ErrorIs(t, g.Close(), errWrite)
	})

	t.Run("LargeOutputFlushes", func(t *testing.T) {
		var out bytes.Buffer
		g := NewGenerator(&out, nil)
		require.NoError(t, g.WriteString(strings.Repeat("z", flushThreshold)))
		assert.Greater(t, out.Len(), flushThreshold)
		require.NoError(t, g.Close())
	})
}

func TestCopyCurrentStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		cfg   *Config
	}{
		{
			name:  "Document",
			input: `{"a": [1, 2.50, "x\n", {"b": null}], "c": true, "d": 123456789012345678901234567890}`,
			want:  `{"a":[1,2.50,"x\n",{"b":null}],"c":true,"d":123456789012345678901234567890}`,
		},
		{
			name:  "Scalar",
			input: ` -0.0e-0 `,
			want:  `-0.0e-0`,
		},
		{
			name:  "NonNumeric",
			input: `[NaN, -Infinity, +Infinity]`,
			want:  `["NaN","-Infinity","Infinity"]`,
			cfg:   LenientConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParserString(tt.input, tt.cfg)
			require.NoError(t, err)
			defer p.Close()

			var out bytes.Buffer
			g := NewGenerator(&out, nil)
			_, err = p.NextToken()
			require.NoError(t, err)
			require.NoError(t, g.CopyCurrentStructure(p))
			require.NoError(t, g.Close())
			assert.Equal(t, tt.want, out.String())

			tok, err := p.NextToken()
			require.NoError(t, err)
			assert.Equal(t, TokenEOF, tok)
		})
	}

	t.Run("FromFieldName", func(t *testing.T) {
		p := parserAt(t, `{"skip": 1, "keep": {"x": [true]}, "after": 2}`)
		for i := 0; i < 4; i++ {
			_, err := p.NextToken()
			require.NoError(t, err)
		}
		name, _ := p.FieldName()
		require.Equal(t, "keep", name)

		var out bytes.Buffer
		g := NewGenerator(&out, nil)
		require.NoError(t, g.WriteStartObject())
		require.NoError(t, g.CopyCurrentStructure(p))
		require.NoError(t, g.Close())
		assert.Equal(t, `{"keep":{"x":[true]}}`, out.String())
		assert.Equal(t, TokenEndObject, p.CurrentToken())
	})

	t.Run("NoCurrentToken", func(t *testing.T) {
		p, err := NewParserString(`1`, nil)
		require.NoError(t, err)
		defer p.Close()
		g := NewGenerator(&bytes.Buffer{}, nil)
		defer g.Close()
		assert.ErrorIs(t, g.CopyCurrentEvent(p), ErrGeneration)
	})
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }
