package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

// CSVWriter writes extracted transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *models.ExtractResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *models.ExtractResult) error {
	writer := csv.NewWriter(out)

	// Metadata rows are prefixed with "#" so spreadsheet imports can skip them.
	if w.IncludeHeader {
		meta := [][]string{
			{"# Card", string(res.CardType)},
			{"# Cardholders", strings.Join(res.Cardholders, "; ")},
			{"# Transactions", strconv.Itoa(len(res.Transactions))},
		}
		if err := writer.WriteAll(meta); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	cols := columnsFor(res.CardType)
	if err := writer.Write(headers(cols)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range res.Transactions {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.text(txn)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
