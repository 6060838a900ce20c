package main

import (
	"fmt"

	"github.com/cybergodev/jsontoken"
)

// conversionRecord is the outcome of converting a numeric token to one target
type conversionRecord struct {
	Target string `json:"target" yaml:"target"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type numberRecord struct {
	Type        string             `json:"type" yaml:"type"`
	Negative    bool               `json:"negative" yaml:"negative"`
	IntDigits   int                `json:"int_digits" yaml:"int_digits"`
	FracDigits  int                `json:"frac_digits" yaml:"frac_digits"`
	ExpDigits   int                `json:"exp_digits" yaml:"exp_digits"`
	Conversions []conversionRecord `json:"conversions" yaml:"conversions"`
}

// describeNumber runs every conversion on n. The natural type is resolved
// first, so the cached representation is the one a plain reader would see.
func describeNumber(n *jsontoken.NumericToken) *numberRecord {
	desc := n.Descriptor()
	rec := &numberRecord{
		Negative:   desc.Negative,
		IntDigits:  desc.IntDigits,
		FracDigits: desc.FracDigits,
		ExpDigits:  desc.ExpDigits,
	}
	if t, err := n.NumberType(); err != nil {
		rec.Type = "error: " + err.Error()
	} else {
		rec.Type = t.String()
	}

	add := func(target string, v any, err error) {
		r := conversionRecord{Target: target}
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Value = fmt.Sprint(v)
		}
		rec.Conversions = append(rec.Conversions, r)
	}

	i32, err := n.Int32()
	add("int32", i32, err)
	i64, err := n.Int64()
	add("int64", i64, err)
	bi, err := n.BigInt()
	add("big.Int", bi, err)
	f64, err := n.Float64()
	add("float64", f64, err)
	dec, err := n.BigDecimal()
	add("decimal", dec, err)
	return rec
}
