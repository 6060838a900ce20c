package main

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybergodev/jsontoken"
)

func newFmtCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a JSON document",
		Long: heredoc.Doc(`
			Reformat JSON by copying every token from the parser to a generator.
			Numbers are copied by their original text, so no precision is lost.
		`),
		Example: heredoc.Doc(`
			# Pretty-print with two-space indentation
			$ jsontok fmt --indent "  " data.json

			# Compact, escaping non-ASCII characters
			$ cat data.json | jsontok fmt --indent "" --ascii
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indent, _ := cmd.Flags().GetString("indent")
			ascii, _ := cmd.Flags().GetBool("ascii")

			in, name, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			cfg, err := a.parserConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			p, err := jsontoken.NewParser(in, cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			g := jsontoken.NewGenerator(out, &jsontoken.GeneratorOptions{
				Indent:         indent,
				EscapeNonASCII: ascii,
			})

			values, err := copyDocument(p, g)
			if cerr := g.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				a.logger.Debug("reformatting failed", zap.String("input", name), zap.Error(err))
				return err
			}
			if values > 0 {
				_, err = out.Write([]byte{'\n'})
			}
			return err
		},
	}
	cmd.Flags().String("indent", "  ", "Indentation per nesting level; empty for compact output")
	cmd.Flags().Bool("ascii", false, "Escape non-ASCII characters")
	return cmd
}

// copyDocument copies every root-level value and returns how many there were
func copyDocument(p *jsontoken.Parser, g *jsontoken.Generator) (int, error) {
	values := 0
	for {
		tok, err := p.NextToken()
		if err != nil {
			return values, err
		}
		if tok == jsontoken.TokenEOF {
			return values, nil
		}
		if err := g.CopyCurrentStructure(p); err != nil {
			return values, err
		}
		values++
	}
}
