package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cybergodev/jsontoken"
)

func newStatsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>...",
		Short: "Tokenize files concurrently and report aggregate statistics",
		Long: heredoc.Doc(`
			Tokenize every file to the end, resolving the natural type of each
			number, and report token counts, conversions, overflows and bytes read.
			Files are processed concurrently with one shared stats collector.
		`),
		Example: heredoc.Doc(`
			$ jsontok stats --jobs 4 logs/*.json
			$ jsontok stats --format yaml a.json b.json
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			jobs, _ := cmd.Flags().GetInt("jobs")

			cfg, err := a.parserConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			collector := jsontoken.NewStatsCollector()
			cfg.Stats = collector

			failed, err := scanFiles(cmd.Context(), a.logger, cfg, args, jobs)
			if err != nil {
				return err
			}
			if err := writeStats(cmd.OutOrStdout(), format, collector.Snapshot()); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to tokenize", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().String("format", "text", "Output format: text, json or yaml")
	cmd.Flags().IntP("jobs", "j", 4, "Number of files tokenized concurrently")
	return cmd
}

// scanFiles tokenizes files concurrently. Documents that fail to tokenize are
// counted and logged; only failures to open a file abort the scan.
func scanFiles(ctx context.Context, logger *zap.Logger, cfg *jsontoken.Config, files []string, jobs int) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = 1
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, name := range files {
		g.Go(func() error {
			f, err := os.Open(name)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", name, err)
			}
			defer f.Close()

			if err := scanDocument(gctx, f, cfg); err != nil {
				failed.Add(1)
				logger.Warn("tokenizing failed", zap.String("file", name), zap.Error(err))
				return nil
			}
			logger.Debug("tokenized", zap.String("file", name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(failed.Load()), err
	}
	return int(failed.Load()), nil
}

func scanDocument(ctx context.Context, r io.Reader, cfg *jsontoken.Config) error {
	p, err := jsontoken.NewParser(r, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := p.NextToken()
		if err != nil {
			return err
		}
		switch {
		case tok == jsontoken.TokenEOF:
			return nil
		case tok.IsNumeric():
			// Failures are counted by the collector
			_, _ = p.NumberType()
		}
	}
}

func writeStats(w io.Writer, format string, s jsontoken.Stats) error {
	switch strings.ToLower(format) {
	case "text", "":
		return writeStatsText(w, s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		return writeStatsJSON(w, s)
	default:
		return fmt.Errorf("unsupported format %q (expected text, json or yaml)", format)
	}
}

func writeStatsText(w io.Writer, s jsontoken.Stats) error {
	_, err := fmt.Fprintf(w, heredoc.Doc(`
		documents:      %s (%s failed)
		tokens:         %s
		bytes consumed: %s
		overflows:      %s
		malformed:      %s
		parse time:     %s total, %s average, %s max
	`),
		humanize.Comma(s.Documents), humanize.Comma(s.FailedDocuments),
		humanize.Comma(s.TotalTokens),
		humanize.Bytes(uint64(s.BytesConsumed)),
		humanize.Comma(s.Overflows),
		humanize.Comma(s.MalformedNumbers),
		s.TotalParseTime, s.AvgParseTime, s.MaxParseTime,
	)
	if err != nil {
		return err
	}

	if len(s.TokensByKind) == 0 && len(s.Conversions) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Append([]string{"COUNTER", "NAME", "COUNT"})
	for _, group := range []struct {
		label  string
		counts map[string]int64
	}{
		{"token", s.TokensByKind},
		{"conversion", s.Conversions},
		{"error", s.ErrorsByType},
	} {
		for _, name := range sortedKeys(group.counts) {
			table.Append([]string{group.label, name, humanize.Comma(group.counts[name])})
		}
	}
	return table.Render()
}

func writeStatsJSON(w io.Writer, s jsontoken.Stats) error {
	g := jsontoken.NewGenerator(w, &jsontoken.GeneratorOptions{Indent: "  "})
	write := func() error {
		if err := g.WriteStartObject(); err != nil {
			return err
		}
		for _, field := range []struct {
			name  string
			value int64
		}{
			{"documents", s.Documents},
			{"failed_documents", s.FailedDocuments},
			{"total_tokens", s.TotalTokens},
			{"bytes_consumed", s.BytesConsumed},
			{"overflows", s.Overflows},
			{"malformed_numbers", s.MalformedNumbers},
			{"total_parse_time_ns", int64(s.TotalParseTime)},
		} {
			if err := g.WriteFieldName(field.name); err != nil {
				return err
			}
			if err := g.WriteInt64(field.value); err != nil {
				return err
			}
		}
		for _, group := range []struct {
			name   string
			counts map[string]int64
		}{
			{"tokens_by_kind", s.TokensByKind},
			{"conversions", s.Conversions},
			{"errors_by_type", s.ErrorsByType},
		} {
			if err := g.WriteFieldName(group.name); err != nil {
				return err
			}
			if err := g.WriteStartObject(); err != nil {
				return err
			}
			for _, k := range sortedKeys(group.counts) {
				if err := g.WriteFieldName(k); err != nil {
					return err
				}
				if err := g.WriteInt64(group.counts[k]); err != nil {
					return err
				}
			}
			if err := g.WriteEndObject(); err != nil {
				return err
			}
		}
		return g.WriteEndObject()
	}

	err := write()
	if cerr := g.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
