package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/barbaramelovalor031/expenses-valor/internal/fx"
	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

// BradescoParser handles Bradesco international card statements (faturas).
//
// Rows carry a DD/MM date, the description, the amount in the original
// currency and the amount in BRL, both in Brazilian number format:
//
//	15/01 UBER *TRIP 50,00 9,00
//
// The year comes from the "Mês: Janeiro/2024" header and the single holder
// from "Nome:". BRL amounts are converted to USD at the PTAX sell rate of
// the transaction date.
type BradescoParser struct {
	opts       Options
	classifier *Classifier
}

const bradescoMoney = `\(?-?\d{1,3}(?:\.\d{3})*,\d{2}\)?`

var (
	bradescoDatePattern = regexp.MustCompile(`^(\d{2}/\d{2})\s+(\S.*)$`)
	bradescoRowPattern  = regexp.MustCompile(
		`^(\d{2}/\d{2})\s+(.+?)\s+(` + bradescoMoney + `)\s+(` + bradescoMoney + `)\s*$`,
	)
	bradescoMonthPattern = regexp.MustCompile(`(?i)M[eê]s:\s*[^\s/]+/(\d{4})`)
	bradescoNamePattern  = regexp.MustCompile(`(?i)^Nome:\s*(.+)$`)
	anyYearPattern       = regexp.MustCompile(`(20\d{2})`)
)

// BradescoRules is the Bradesco line vocabulary.
var BradescoRules = IssuerRules{
	DatePattern:  bradescoDatePattern,
	SkipPrefixes: []string{"DATA HISTÓRICO", "DATA HISTORICO", "TOTAL:"},
}

const bradescoDefaultHolder = "Cardholder"

// NewBradescoParser returns a Bradesco parser.
func NewBradescoParser(opts Options) *BradescoParser {
	return &BradescoParser{opts: opts.withDefaults(), classifier: NewClassifier(BradescoRules)}
}

func (p *BradescoParser) CardName() string {
	return "Bradesco"
}

func (p *BradescoParser) Parse(ctx context.Context, pages []string) (*models.ExtractResult, error) {
	log := logger.FromContext(ctx)
	res := &models.ExtractResult{CardType: models.CardBradesco}

	lines := splitLines(pages)
	for i := range lines {
		lines[i] = normalizeLine(lines[i])
	}
	year, holder := p.discoverHeader(lines)

	skip := NewSkipMachine(BradescoRules.FooterResetsSkip)
	var g grouper
	g.open(holder)

	for i, line := range lines {
		class := p.classifier.Classify(lines, i)
		wasSkipping := skip.Skipping()
		skip.Step(class)
		if wasSkipping || skip.Skipping() || class != ClassTransactionStart {
			trace(res, i, line, class, "skipped")
			continue
		}

		ddmm, desc, origRaw, brlRaw, ok := splitBradescoRow(line)
		if !ok {
			trace(res, i, line, class, "skipped")
			continue
		}

		if parseBRLAmount(origRaw) == nil {
			log.Debug().Str("token", origRaw).Int("line", i+1).Msg("unparseable original-currency amount")
		}
		txn := models.Transaction{
			Date:        dayMonthDate(ddmm, year),
			Description: strings.TrimSpace(desc),
			AmountBRL:   parseBRLAmount(brlRaw),
			BRL:         true,
		}
		if p.opts.FX != nil {
			txn.FXRate = p.opts.FX.Rate(ctx, txn.Date)
		}
		txn.Amount = fx.Convert(txn.AmountBRL, txn.FXRate)

		g.attach(txn)
		trace(res, i, line, class, "parsed")
	}

	res.Transactions, res.Cardholders = g.finish(p.opts.Names, p.opts.DropNullAmounts)
	assignIDs(res.CardType, res.Transactions)

	log.Debug().
		Int("year", year).
		Int("transactions", len(res.Transactions)).
		Msg("bradesco statement parsed")
	return res, nil
}

// discoverHeader finds the statement year and the holder name. The last
// match of each wins; the year falls back to any 20xx in the text, then
// to the current year.
func (p *BradescoParser) discoverHeader(lines []string) (int, string) {
	year := 0
	holder := bradescoDefaultHolder
	for _, l := range lines {
		if m := bradescoMonthPattern.FindStringSubmatch(l); m != nil {
			year, _ = strconv.Atoi(m[1])
		}
		if m := bradescoNamePattern.FindStringSubmatch(l); m != nil {
			holder = strings.TrimSpace(m[1])
		}
	}
	if year == 0 {
		if m := anyYearPattern.FindString(strings.Join(lines, " ")); m != "" {
			year, _ = strconv.Atoi(m)
		} else {
			year = p.opts.Now().Year()
		}
	}
	return year, holder
}

// splitBradescoRow pulls the date, description and the two trailing amounts
// out of a row. Rows with text after the amounts fall back to taking the
// last two monetary tokens anywhere on the line.
func splitBradescoRow(line string) (ddmm, desc, orig, brl string, ok bool) {
	if m := bradescoRowPattern.FindStringSubmatch(line); m != nil {
		return m[1], m[2], m[3], m[4], true
	}

	date := bradescoDatePattern.FindStringSubmatchIndex(line)
	if date == nil {
		return "", "", "", "", false
	}
	money := brlAmountPattern.FindAllStringIndex(line, -1)
	if len(money) < 2 {
		return "", "", "", "", false
	}
	o, b := money[len(money)-2], money[len(money)-1]
	descStart := date[4]
	if o[0] < descStart {
		return "", "", "", "", false
	}
	return line[date[2]:date[3]], line[descStart:o[0]], line[o[0]:o[1]], line[b[0]:b[1]], true
}
