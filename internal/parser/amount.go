package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount token patterns.
var (
	// usdAmountPattern matches "$1,234.56", "-$25.00", "25.00", "($10.00)".
	usdAmountPattern = regexp.MustCompile(
		`\(\s*-?(?:R?\$\s*)?\b(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\b\s*\)` +
			`|-?(?:R?\$\s*)?\b(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\b`,
	)
	// brlAmountPattern matches Brazilian-formatted numbers: "1.234,56", "(9,00)".
	brlAmountPattern = regexp.MustCompile(`\(?-?\d{1,3}(?:\.\d{3})*,\d{2}\)?`)

	// numericPattern is what must remain once formatting is stripped.
	numericPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

var currencyStripper = strings.NewReplacer("R$", "", "$", "", " ", "")

// parseUSDAmount converts a token like "$1,234.56", "-$5.00" or "($10.00)"
// to a float. It returns nil when anything non-numeric is left over.
func parseUSDAmount(tok string) *float64 {
	return parseAmountToken(tok, false)
}

// parseBRLAmount converts "1.234,56", "(123,45)" or "-1.234,56".
func parseBRLAmount(tok string) *float64 {
	return parseAmountToken(tok, true)
}

func parseAmountToken(tok string, brl bool) *float64 {
	t := normalizeLine(tok)
	negative := false
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		negative = true
		t = t[1 : len(t)-1]
	}
	t = currencyStripper.Replace(t)
	if brl {
		t = strings.ReplaceAll(t, ".", "")
		t = strings.ReplaceAll(t, ",", ".")
	} else {
		t = strings.ReplaceAll(t, ",", "")
	}
	if strings.HasPrefix(t, "-") {
		negative = true
		t = t[1:]
	}
	if !numericPattern.MatchString(t) {
		return nil
	}

	d, err := decimal.NewFromString(t)
	if err != nil {
		return nil
	}
	if negative {
		d = d.Neg()
	}
	v := d.InexactFloat64()
	return &v
}

// extractAmount finds the transaction amount in an assembled block and
// returns it with the block minus the amount token.
//
// The last monetary token wins: renderers put the amount at the end of the
// row, and earlier figures are promo text or references. A description with
// a currency-like string after the real amount defeats this.
func extractAmount(block string) (*float64, string) {
	block = normalizeLine(block)
	locs := usdAmountPattern.FindAllStringIndex(block, -1)
	if len(locs) == 0 {
		return nil, cleanDescription(block)
	}
	loc := locs[len(locs)-1]
	amount := parseUSDAmount(block[loc[0]:loc[1]])
	return amount, cleanDescription(block[:loc[0]] + " " + block[loc[1]:])
}

func cleanDescription(s string) string {
	return strings.Trim(collapseSpaces(s), " -|,")
}
