// Package jsontoken provides a pull-based, streaming JSON tokenizer with lazy
// numeric conversion.
//
// The package uses an internal package for implementation details:
//
//   - internal: Character classes, escape tables, digit parsing helpers, the
//     field-name table and the stats collector
//
// Most users can simply import the root package:
//
//	import "github.com/cybergodev/jsontoken"
//
// # Basic Usage
//
// Create a parser over an io.Reader, a byte slice or a string and advance it
// token by token:
//
//	p, err := jsontoken.NewParserString(`{"id":12345678901,"price":19.99}`, nil)
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	for {
//		tok, err := p.NextToken()
//		if err != nil {
//			return err
//		}
//		if tok == jsontoken.TokenEOF {
//			break
//		}
//		if tok == jsontoken.TokenInt {
//			id, err := p.Int64Value()
//			...
//		}
//	}
//
// # Numbers
//
// Numeric tokens are kept as text until a value is requested. The first
// request parses the text into the narrowest suitable representation (int32,
// int64, *big.Int, float64 or decimal.Decimal) and caches it for the rest of
// the token's lifetime; later requests convert from the cached value.
// Narrowing conversions that do not fit fail with a *NumericOverflowError:
//
//	v, err := p.Int32Value()
//	if errors.Is(err, jsontoken.ErrNumericOverflow) {
//		wide, _ := p.Int64Value()
//		...
//	}
//
// Float tokens requested as decimals first are parsed exactly, never through
// float64, and integer conversions of float tokens truncate the exact text.
// A NumericToken can also be built standalone with ParseNumericToken.
//
// # Configuration
//
// Use DefaultConfig, StrictConfig or LenientConfig and adjust as needed:
//
//	cfg := jsontoken.LenientConfig() // NaN/Infinity and trailing commas
//	cfg.MaxNestingDepth = 100
//	cfg.Logger = slog.Default()
//	cfg.Stats = jsontoken.NewStatsCollector()
//	p, err := jsontoken.NewParser(r, cfg)
//
// # Errors
//
// Lexing errors are *ParseError values carrying the input Location and
// wrapping one of the sentinel errors (ErrInvalidJSON, ErrUnexpectedEOF,
// ErrDepthLimit, ErrSizeLimit). They are fatal: the parser returns the same
// error from every later NextToken call. A NumericOverflowError only fails
// the conversion call, so a wider type can still be requested; a
// MalformedNumberError is fatal like a lexing error.
//
// # Output
//
// Generator writes tokens back out, either one at a time or copied from a
// Parser with CopyCurrentEvent and CopyCurrentStructure.
package jsontoken
