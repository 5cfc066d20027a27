package parser

import (
	"context"
	"regexp"

	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

// AmexParser handles American Express corporate card statements.
//
// Each cardholder's activity starts with an all-caps name followed by a
// "Card Ending" line. Transactions start with MM/DD/YY and may wrap over
// several lines; the amount is the last dollar figure of the block:
//
//	SCOTT SOBEL
//	Card Ending 1-23456
//	01/15/24 UBER TRIP
//	HELP.UBER.COM CA $25.00
//
// Fees and interest summaries are laid out like transactions and skipped.
type AmexParser struct {
	opts       Options
	classifier *Classifier
}

var amexDatePattern = regexp.MustCompile(`^(\d{2}/\d{2}/\d{2})\s+(\S.*)$`)

// AmexRules is the Amex line vocabulary.
var AmexRules = IssuerRules{
	DatePattern:      amexDatePattern,
	FeesPrefixes:     []string{"FEES"},
	InterestPrefixes: []string{"INTEREST CHARGED"},
	SectionEnd: []string{
		"TOTAL FEES FOR THIS PERIOD",
		"TOTAL INTEREST CHARGED FOR THIS PERIOD",
		"ABOUT TRAILING INTEREST",
		"IMPORTANT NOTICES",
	},
	SkipPrefixes:     []string{"FOREIGN", "SPEND", "AMOUNT", "DETAIL", "CONTINUED ON NEXT PAGE"},
	DetectFooter:     true,
	FooterResetsSkip: true,
	Holder:           lookaheadHolder,
}

// NewAmexParser returns an Amex parser.
func NewAmexParser(opts Options) *AmexParser {
	return &AmexParser{opts: opts.withDefaults(), classifier: NewClassifier(AmexRules)}
}

func (p *AmexParser) CardName() string {
	return "American Express"
}

func (p *AmexParser) Parse(ctx context.Context, pages []string) (*models.ExtractResult, error) {
	log := logger.FromContext(ctx)
	res := &models.ExtractResult{CardType: models.CardAmex}

	lines := splitLines(pages)
	skip := NewSkipMachine(AmexRules.FooterResetsSkip)
	var g grouper
	dropped := 0

	for i := 0; i < len(lines); {
		line := normalizeLine(lines[i])
		class := p.classifier.Classify(lines, i)
		wasSkipping := skip.Skipping()
		skip.Step(class)

		if class == ClassCardholderHeader {
			holder, _ := p.classifier.Holder(lines, i)
			g.open(holder)
			trace(res, i, line, class, "header")
			i++
			continue
		}

		if wasSkipping || skip.Skipping() {
			trace(res, i, line, class, "skipped")
			i++
			continue
		}

		if class != ClassTransactionStart {
			trace(res, i, line, class, "skipped")
			i++
			continue
		}

		if !g.hasSection() {
			dropped++
			trace(res, i, line, class, "dropped")
			i++
			continue
		}

		rawDate, first, _ := p.classifier.SplitDate(line)
		blob, next := assembleBlock(p.classifier, lines, i, first)
		amount, desc := extractAmount(blob)

		g.attach(models.Transaction{
			Date:        isoDate(rawDate, "01/02/06"),
			Description: desc,
			Amount:      amount,
		})
		trace(res, i, line, class, "parsed")
		for j := i + 1; j < next; j++ {
			trace(res, j, normalizeLine(lines[j]), p.classifier.Classify(lines, j), "continuation")
		}
		i = next
	}

	res.Transactions, res.Cardholders = g.finish(p.opts.Names, p.opts.DropNullAmounts)
	assignIDs(res.CardType, res.Transactions)

	log.Debug().
		Int("lines", len(lines)).
		Int("transactions", len(res.Transactions)).
		Int("dropped_without_holder", dropped).
		Msg("amex statement parsed")
	return res, nil
}
