package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

const (
	summarySheet = "Summary"
	// maxSheetName is Excel's limit on worksheet name length.
	maxSheetName = 31
)

// sheetNameReplacer drops the characters Excel forbids in sheet names.
var sheetNameReplacer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

// XLSXWriter writes extracted transactions to an Excel workbook: a Summary
// sheet with per-cardholder totals, then one sheet per cardholder.
type XLSXWriter struct{}

// WriteToFile writes the workbook to path.
func (w *XLSXWriter) WriteToFile(path string, res *models.ExtractResult) error {
	f, err := w.build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

// Write writes the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, res *models.ExtractResult) error {
	f, err := w.build(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type holderTotals struct {
	count int
	usd   decimal.Decimal
	brl   decimal.Decimal
	// unpriced counts rows whose amount is nil and so are missing from usd.
	unpriced int
}

func (w *XLSXWriter) build(res *models.ExtractResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	byHolder := make(map[string][]models.Transaction)
	for _, txn := range res.Transactions {
		byHolder[txn.Cardholder] = append(byHolder[txn.Cardholder], txn)
	}

	holders := orderedHolders(res)
	cols := columnsFor(res.CardType)
	names := sheetNames(holders)
	totals := make(map[string]*holderTotals, len(holders))

	for _, holder := range holders {
		sheet := names[holder]
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet for %q: %w", holder, err)
		}
		if err := writeRow(f, sheet, 1, toValues(headers(cols))); err != nil {
			f.Close()
			return nil, err
		}
		t := &holderTotals{}
		for i, txn := range byHolder[holder] {
			row := make([]interface{}, len(cols))
			for j, c := range cols {
				row[j] = c.value(txn)
			}
			if err := writeRow(f, sheet, i+2, row); err != nil {
				f.Close()
				return nil, err
			}
			t.add(txn)
		}
		totals[holder] = t
		styleHeader(f, sheet, len(cols), bold)
		f.SetColWidth(sheet, "B", "B", 48)
	}

	if err := writeSummary(f, res.CardType, holders, totals, bold); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func (t *holderTotals) add(txn models.Transaction) {
	t.count++
	if txn.Amount != nil {
		t.usd = t.usd.Add(decimal.NewFromFloat(*txn.Amount))
	} else {
		t.unpriced++
	}
	if txn.AmountBRL != nil {
		t.brl = t.brl.Add(decimal.NewFromFloat(*txn.AmountBRL))
	}
}

func writeSummary(f *excelize.File, card models.CardType, holders []string, totals map[string]*holderTotals, bold int) error {
	header := []string{"Cardholder", "Transactions", "Total USD", "Without Amount"}
	if card == models.CardBradesco {
		header = append(header, "Total BRL")
	}
	if err := writeRow(f, summarySheet, 1, toValues(header)); err != nil {
		return err
	}

	grand := &holderTotals{}
	for i, holder := range holders {
		t := totals[holder]
		if err := writeRow(f, summarySheet, i+2, summaryRow(holder, t, card)); err != nil {
			return err
		}
		grand.count += t.count
		grand.usd = grand.usd.Add(t.usd)
		grand.brl = grand.brl.Add(t.brl)
		grand.unpriced += t.unpriced
	}
	totalRow := len(holders) + 2
	if err := writeRow(f, summarySheet, totalRow, summaryRow("Total", grand, card)); err != nil {
		return err
	}

	styleHeader(f, summarySheet, len(header), bold)
	if cell, err := excelize.CoordinatesToCellName(1, totalRow); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), totalRow)
		f.SetCellStyle(summarySheet, cell, last, bold)
	}
	f.SetColWidth(summarySheet, "A", "A", 28)
	return nil
}

func summaryRow(label string, t *holderTotals, card models.CardType) []interface{} {
	row := []interface{}{label, t.count, t.usd.Round(2).InexactFloat64(), t.unpriced}
	if card == models.CardBradesco {
		row = append(row, t.brl.Round(2).InexactFloat64())
	}
	return row
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, width, style int) {
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return
	}
	f.SetCellStyle(sheet, "A1", last, style)
}

func toValues(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// orderedHolders lists cardholders in statement order, including any that
// only appear on transactions.
func orderedHolders(res *models.ExtractResult) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(h string) {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	for _, h := range res.Cardholders {
		add(h)
	}
	for _, txn := range res.Transactions {
		add(txn.Cardholder)
	}
	return out
}

// sheetNames maps each holder to a valid, unique worksheet name. Excel
// compares sheet names case-insensitively.
func sheetNames(holders []string) map[string]string {
	used := map[string]bool{strings.ToLower(summarySheet): true}
	out := make(map[string]string, len(holders))
	for _, h := range holders {
		base := strings.TrimSpace(sheetNameReplacer.Replace(h))
		base = strings.Trim(base, "'")
		if base == "" {
			base = "Cardholder"
		}
		name := truncateRunes(base, maxSheetName)
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		out[h] = name
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
