package main

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cybergodev/jsontoken"
)

func newNumberCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "number <literal>...",
		Short: "Show how numeric literals convert",
		Long: heredoc.Doc(`
			Classify each argument as a JSON number and show its natural type and
			the result of converting it to int32, int64, big.Int, float64 and
			decimal. Conversions that do not fit report the overflow error.
		`),
		Example: heredoc.Doc(`
			$ jsontok number 2147483648 -9223372036854775809 1e400
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, literal := range args {
				if err := printNumber(cmd.OutOrStdout(), literal); err != nil {
					failed++
					a.logger.Sugar().Warnf("%s: %v", literal, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d literals are not valid JSON numbers", failed, len(args))
			}
			return nil
		},
	}
	return cmd
}

func printNumber(w io.Writer, literal string) error {
	n, err := jsontoken.ParseNumericToken(literal)
	if err != nil {
		return err
	}
	rec := describeNumber(n)

	if _, err := fmt.Fprintf(w, "%s (%s; int digits %d, fraction digits %d, exponent digits %d)\n",
		n.Text(), rec.Type, rec.IntDigits, rec.FracDigits, rec.ExpDigits); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Append([]string{"TARGET", "VALUE", "ERROR"})
	for _, c := range rec.Conversions {
		table.Append([]string{c.Target, c.Value, c.Error})
	}
	return table.Render()
}

