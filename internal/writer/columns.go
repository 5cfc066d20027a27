package writer

import (
	"strconv"

	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

// column is one exported transaction field.
type column struct {
	header string
	// text renders the cell for CSV output.
	text func(models.Transaction) string
	// value renders the cell for spreadsheets; nil leaves the cell empty.
	value func(models.Transaction) interface{}
}

var (
	dateColumn = column{
		header: "Date",
		text:   func(t models.Transaction) string { return t.Date },
		value:  func(t models.Transaction) interface{} { return t.Date },
	}
	descriptionColumn = column{
		header: "Description",
		text:   func(t models.Transaction) string { return t.Description },
		value:  func(t models.Transaction) interface{} { return t.Description },
	}
	amountColumn = column{
		header: "Amount",
		text:   func(t models.Transaction) string { return formatAmount(t.Amount) },
		value:  func(t models.Transaction) interface{} { return floatValue(t.Amount) },
	}
	cardholderColumn = column{
		header: "Cardholder",
		text:   func(t models.Transaction) string { return t.Cardholder },
		value:  func(t models.Transaction) interface{} { return t.Cardholder },
	}
	amountBRLColumn = column{
		header: "Amount BRL",
		text:   func(t models.Transaction) string { return formatAmount(t.AmountBRL) },
		value:  func(t models.Transaction) interface{} { return floatValue(t.AmountBRL) },
	}
	fxRateColumn = column{
		header: "FX Rate",
		text:   func(t models.Transaction) string { return formatRate(t.FXRate) },
		value:  func(t models.Transaction) interface{} { return floatValue(t.FXRate) },
	}
	mccColumn = column{
		header: "MCC",
		text:   func(t models.Transaction) string { return t.MCC },
		value:  func(t models.Transaction) interface{} { return t.MCC },
	}
	merchantZipColumn = column{
		header: "Merchant ZIP",
		text:   func(t models.Transaction) string { return t.MerchantZip },
		value:  func(t models.Transaction) interface{} { return t.MerchantZip },
	}
)

// columnsFor returns the export columns for a card type. BRL statements add
// the original amount and rate; SVB adds merchant details.
func columnsFor(card models.CardType) []column {
	cols := []column{dateColumn, descriptionColumn, amountColumn, cardholderColumn}
	switch card {
	case models.CardBradesco:
		cols = append(cols, amountBRLColumn, fxRateColumn)
	case models.CardSVB:
		cols = append(cols, mccColumn, merchantZipColumn)
	}
	return cols
}

func headers(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.header
	}
	return out
}

// formatAmount renders cents; a nil amount is an empty cell, zero is "0.00".
func formatAmount(amount *float64) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', 2, 64)
}

func formatRate(rate *float64) string {
	if rate == nil {
		return ""
	}
	return strconv.FormatFloat(*rate, 'f', 4, 64)
}

func floatValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
