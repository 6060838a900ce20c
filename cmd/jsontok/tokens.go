package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cybergodev/jsontoken"
)

type tokenRecord struct {
	Token  string        `json:"token" yaml:"token"`
	Text   string        `json:"text,omitempty" yaml:"text,omitempty"`
	Path   string        `json:"path" yaml:"path"`
	Line   int           `json:"line" yaml:"line"`
	Column int           `json:"column" yaml:"column"`
	Offset int64         `json:"offset" yaml:"offset"`
	Number *numberRecord `json:"number,omitempty" yaml:"number,omitempty"`
}

func newTokensCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "List the tokens of a JSON document",
		Long: heredoc.Doc(`
			List every token of a JSON document with its location and JSON Pointer
			path. With --numbers, numeric tokens also show each conversion.
			Reads standard input when no file (or "-") is given.
		`),
		Example: heredoc.Doc(`
			# Show tokens with numeric conversions
			$ echo '{"id": 12345678901}' | jsontok tokens --numbers

			# Dump tokens as YAML
			$ jsontok tokens --format yaml data.json
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			numbers, _ := cmd.Flags().GetBool("numbers")

			in, name, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			cfg, err := a.parserConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			records, err := collectTokens(in, cfg, numbers)
			if err != nil {
				a.logger.Debug("tokenizing failed", zap.String("input", name), zap.Error(err))
			}
			if werr := writeTokens(cmd.OutOrStdout(), format, records); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().String("format", "text", "Output format: text, json or yaml")
	cmd.Flags().Bool("numbers", false, "Show numeric conversions")
	return cmd
}

// collectTokens reads tokens up to EOF. On failure it returns the tokens
// read so far along with the error.
func collectTokens(r io.Reader, cfg *jsontoken.Config, numbers bool) ([]tokenRecord, error) {
	p, err := jsontoken.NewParser(r, cfg)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var records []tokenRecord
	for {
		tok, err := p.NextToken()
		if err != nil {
			return records, err
		}
		if tok == jsontoken.TokenEOF {
			return records, nil
		}

		loc := p.TokenLocation()
		rec := tokenRecord{
			Token:  tok.String(),
			Path:   p.Context().Path(),
			Line:   loc.Line,
			Column: loc.Column,
			Offset: loc.Offset,
		}
		if tok.IsScalarValue() || tok == jsontoken.TokenFieldName {
			rec.Text = p.Text()
		}
		if numbers && tok.IsNumeric() {
			n, err := p.NumericToken()
			if err != nil {
				return records, err
			}
			rec.Number = describeNumber(&n)
		}
		records = append(records, rec)
	}
}

func writeTokens(w io.Writer, format string, records []tokenRecord) error {
	switch strings.ToLower(format) {
	case "text", "":
		return writeTokensText(w, records)
	case "json":
		return writeTokensJSON(w, records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (expected text, json or yaml)", format)
	}
}

var (
	structColor = color.New(color.FgHiBlack).SprintFunc()
	nameColor   = color.New(color.FgCyan).SprintFunc()
	valueColor  = color.New(color.FgGreen).SprintFunc()
	errorColor  = color.New(color.FgRed).SprintFunc()
)

func writeTokensText(w io.Writer, records []tokenRecord) error {
	for _, r := range records {
		token := fmt.Sprintf("%-12s", r.Token)
		switch jsontokenKind(r.Token) {
		case kindStruct:
			token = structColor(token)
		case kindName:
			token = nameColor(token)
		default:
			token = valueColor(token)
		}
		if _, err := fmt.Fprintf(w, "%4d:%-4d %s %-24s %s\n", r.Line, r.Column, token, r.Path, r.Text); err != nil {
			return err
		}
		if r.Number == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "          natural type %s\n", r.Number.Type); err != nil {
			return err
		}
		for _, c := range r.Number.Conversions {
			value := c.Value
			if c.Error != "" {
				value = errorColor(c.Error)
			}
			if _, err := fmt.Fprintf(w, "          %-8s %s\n", c.Target, value); err != nil {
				return err
			}
		}
	}
	return nil
}

type tokenKind int

const (
	kindValue tokenKind = iota
	kindStruct
	kindName
)

func jsontokenKind(name string) tokenKind {
	switch name {
	case jsontoken.TokenStartObject.String(), jsontoken.TokenEndObject.String(),
		jsontoken.TokenStartArray.String(), jsontoken.TokenEndArray.String():
		return kindStruct
	case jsontoken.TokenFieldName.String():
		return kindName
	default:
		return kindValue
	}
}

// writeTokensJSON emits the records through the package's own generator
func writeTokensJSON(w io.Writer, records []tokenRecord) error {
	g := jsontoken.NewGenerator(w, &jsontoken.GeneratorOptions{Indent: "  "})
	err := errors.Join(writeRecords(g, records), g.Close())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func writeRecords(g *jsontoken.Generator, records []tokenRecord) error {
	if err := g.WriteStartArray(); err != nil {
		return err
	}
	for _, r := range records {
		fields := []struct {
			name  string
			write func() error
		}{
			{"token", func() error { return g.WriteString(r.Token) }},
			{"text", func() error { return g.WriteString(r.Text) }},
			{"path", func() error { return g.WriteString(r.Path) }},
			{"line", func() error { return g.WriteInt64(int64(r.Line)) }},
			{"column", func() error { return g.WriteInt64(int64(r.Column)) }},
			{"offset", func() error { return g.WriteInt64(r.Offset) }},
		}
		if err := g.WriteStartObject(); err != nil {
			return err
		}
		for _, f := range fields {
			if f.name == "text" && r.Text == "" {
				continue
			}
			if err := g.WriteFieldName(f.name); err != nil {
				return err
			}
			if err := f.write(); err != nil {
				return err
			}
		}
		if r.Number != nil {
			if err := writeNumberRecord(g, r.Number); err != nil {
				return err
			}
		}
		if err := g.WriteEndObject(); err != nil {
			return err
		}
	}
	return g.WriteEndArray()
}

func writeNumberRecord(g *jsontoken.Generator, n *numberRecord) error {
	steps := []func() error{
		func() error { return g.WriteFieldName("number") },
		g.WriteStartObject,
		func() error { return g.WriteFieldName("type") },
		func() error { return g.WriteString(n.Type) },
		func() error { return g.WriteFieldName("negative") },
		func() error { return g.WriteBool(n.Negative) },
		func() error { return g.WriteFieldName("int_digits") },
		func() error { return g.WriteInt64(int64(n.IntDigits)) },
		func() error { return g.WriteFieldName("frac_digits") },
		func() error { return g.WriteInt64(int64(n.FracDigits)) },
		func() error { return g.WriteFieldName("exp_digits") },
		func() error { return g.WriteInt64(int64(n.ExpDigits)) },
		func() error { return g.WriteFieldName("conversions") },
		g.WriteStartArray,
	}
	for _, c := range n.Conversions {
		steps = append(steps,
			g.WriteStartObject,
			func() error { return g.WriteFieldName("target") },
			func() error { return g.WriteString(c.Target) },
		)
		if c.Error != "" {
			steps = append(steps,
				func() error { return g.WriteFieldName("error") },
				func() error { return g.WriteString(c.Error) },
			)
		} else {
			steps = append(steps,
				func() error { return g.WriteFieldName("value") },
				func() error { return g.WriteString(c.Value) },
			)
		}
		steps = append(steps, g.WriteEndObject)
	}
	steps = append(steps, g.WriteEndArray, g.WriteEndObject)

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
