package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barbaramelovalor031/expenses-valor/internal/extractor"
	"github.com/barbaramelovalor031/expenses-valor/internal/fx"
	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
	"github.com/barbaramelovalor031/expenses-valor/internal/parser"
	"github.com/barbaramelovalor031/expenses-valor/internal/writer"
)

type extractOptions struct {
	card            string
	format          string
	output          string
	header          bool
	dropNullAmounts bool
	noFX            bool
	trace           bool
}

func newExtractCommand(g *globals) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <statement.pdf> [statement2.pdf ...]",
		Short: "Extract transactions from statement PDFs",
		Long: `Extract transactions from Amex, SVB and Bradesco statement PDFs.

JSON goes to stdout unless --output is set. CSV and XLSX are written next to
each input (statement.csv, statement.xlsx) unless --output names a file.
Files ending in .txt are read as already-extracted text, pages separated by
form feeds as pdftotext writes them.`,
		Example: `  expenses extract statement.pdf
  expenses extract --card bradesco --format xlsx fatura.pdf
  expenses extract --format csv jan.pdf feb.pdf mar.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, g, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.card, "card", "", "card type: amex, svb, bradesco (auto-detected if omitted)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format: json, csv, xlsx")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().BoolVar(&opts.header, "header", true, "include metadata rows in CSV output")
	cmd.Flags().BoolVar(&opts.dropNullAmounts, "drop-null-amounts", false, "omit transactions whose amount could not be determined")
	cmd.Flags().BoolVar(&opts.noFX, "no-fx", false, "skip PTAX lookups; BRL rows keep a null USD amount")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print the per-line classification trace to stderr")

	return cmd
}

func runExtract(cmd *cobra.Command, g *globals, opts *extractOptions, inputs []string) error {
	var card models.CardType
	if opts.card != "" {
		parsed, ok := models.ParseCardType(strings.ToLower(opts.card))
		if !ok {
			return fmt.Errorf("unknown card type %q: use amex, svb or bradesco", opts.card)
		}
		card = parsed
	}

	format := strings.ToLower(opts.format)
	switch format {
	case "json", "csv", "xlsx":
	default:
		return fmt.Errorf("unknown format %q: use json, csv or xlsx", opts.format)
	}
	if opts.output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output can only be used with a single input file")
	}

	ctx := logger.WithContext(cmd.Context(), g.log)
	table, err := g.cfg.NameTable()
	if err != nil {
		return err
	}

	// Statements in one invocation often overlap in dates; share the rates.
	rates := fx.NewCache()

	var failed int
	for _, input := range inputs {
		log := logger.WithFields(g.log, map[string]interface{}{"file": filepath.Base(input)})

		pages, err := readPages(logger.WithContext(ctx, log), input)
		if err != nil {
			log.Error().Err(err).Msg("extraction failed")
			failed++
			continue
		}

		popts := parser.Options{
			Names:           table,
			DropNullAmounts: opts.dropNullAmounts || g.cfg.Extract.DropNullAmounts,
		}
		if !opts.noFX {
			popts.FX = fx.NewConverter(g.cfg.RateProvider(),
				fx.WithMaxAttempts(g.cfg.FX.MaxAttempts),
				fx.WithCache(rates),
				fx.WithLogger(log),
			)
		}

		res, err := parser.Extract(logger.WithContext(ctx, log), pages, card, popts)
		if err != nil {
			log.Error().Err(err).Msg("parsing failed")
			failed++
			continue
		}
		if opts.trace {
			writeTrace(cmd.ErrOrStderr(), res)
		}

		if err := writeResult(cmd.OutOrStdout(), format, outputPath(input, opts.output, format), opts.header, res); err != nil {
			log.Error().Err(err).Msg("writing output failed")
			failed++
			continue
		}
		log.Info().
			Str("card", string(res.CardType)).
			Int("transactions", len(res.Transactions)).
			Int("cardholders", len(res.Cardholders)).
			Msg("statement extracted")
	}

	g.log.Debug().Int("fx_dates_cached", rates.Len()).Msg("extraction run finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(inputs))
	}
	return nil
}

// readPages returns page text for a PDF, or for a .txt file of form-feed
// separated pages.
func readPages(ctx context.Context, path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading text: %w", err)
		}
		return strings.Split(string(data), "\f"), nil
	}
	return extractor.ExtractText(ctx, path)
}

// outputPath is where a file format is written; "" means stdout.
func outputPath(input, output, format string) string {
	if output != "" || format == "json" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func writeResult(stdout io.Writer, format, path string, header bool, res *models.ExtractResult) error {
	switch format {
	case "csv":
		return (&writer.CSVWriter{IncludeHeader: header}).WriteToFile(path, res)
	case "xlsx":
		return (&writer.XLSXWriter{}).WriteToFile(path, res)
	}

	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeTrace(w io.Writer, res *models.ExtractResult) {
	for _, dl := range res.DebugLines {
		fmt.Fprintf(w, "%4d %-18s %-12s %s\n", dl.LineNum, dl.Class, dl.Result, dl.Text)
	}
}
