package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

// SVBParser handles SVB commercial card statements.
//
// Transactions are single rows ending in the amount:
//
//	01-15-24 REFUND MERCHANT ($10.00)
//	MCC: 5812 MERCHANT ZIP: 94105
//
// A cardholder's rows are followed, not preceded, by their total line:
//
//	SCOTT SOBEL TOTAL FOR ACCOUNT ENDING IN 1234 $1,234.56
//
// so rows stay pending until the next total line names their holder.
type SVBParser struct {
	opts       Options
	classifier *Classifier
}

var (
	svbDatePattern = regexp.MustCompile(`^(\d{2}-\d{2}-\d{2})\s+(\S.*)$`)
	svbTxnPattern  = regexp.MustCompile(
		`^(\d{2}-\d{2}-\d{2})\s+(.+?)\s+(\(?-?\$?\d{1,3}(?:,\d{3})*(?:\.\d{2})?\)?)$`,
	)
	svbHolderPattern = regexp.MustCompile(`(?i)^(.*?) TOTAL FOR ACCOUNT ENDING IN \d+.*$`)
	svbMCCPattern    = regexp.MustCompile(`MCC:\s*(\d+)`)
	svbZipPattern    = regexp.MustCompile(`MERCHANT ZIP:\s*(\d+)`)
)

// SVBRules is the SVB line vocabulary. SVB prints no fee or interest
// sections between card rows, so the skip machine stays in NORMAL.
var SVBRules = IssuerRules{
	DatePattern: svbDatePattern,
	Holder:      svbHolder,
}

// svbPaymentMarker flags card payments, which are not spending.
const svbPaymentMarker = "PAYMENT - THANK YOU"

func svbHolder(lines []string, i int) (string, bool) {
	m := svbHolderPattern.FindStringSubmatch(normalizeLine(lines[i]))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// NewSVBParser returns an SVB parser.
func NewSVBParser(opts Options) *SVBParser {
	return &SVBParser{opts: opts.withDefaults(), classifier: NewClassifier(SVBRules)}
}

func (p *SVBParser) CardName() string {
	return "SVB"
}

func (p *SVBParser) Parse(ctx context.Context, pages []string) (*models.ExtractResult, error) {
	log := logger.FromContext(ctx)
	res := &models.ExtractResult{CardType: models.CardSVB}

	lines := splitLines(pages)
	skip := NewSkipMachine(SVBRules.FooterResetsSkip)
	var g grouper
	var pending []models.Transaction

	for i := range lines {
		line := normalizeLine(lines[i])
		class := p.classifier.Classify(lines, i)
		wasSkipping := skip.Skipping()
		skip.Step(class)

		switch {
		case class == ClassCardholderHeader:
			holder, _ := p.classifier.Holder(lines, i)
			g.open(holder)
			for _, txn := range pending {
				g.attach(txn)
			}
			pending = nil
			trace(res, i, line, class, "header")

		case wasSkipping || skip.Skipping():
			trace(res, i, line, class, "skipped")

		case class == ClassTransactionStart:
			txn, ok := p.parseRow(lines, i)
			if !ok {
				trace(res, i, line, class, "skipped")
				continue
			}
			pending = append(pending, txn)
			trace(res, i, line, class, "parsed")

		default:
			trace(res, i, line, class, "skipped")
		}
	}

	// No per-cardholder totals: attach leftovers to the account.
	if len(pending) > 0 {
		holder := "All Transactions"
		if acct := findAccountEnding(lines); acct != "" {
			holder = "Account " + acct
		}
		g.open(holder)
		for _, txn := range pending {
			g.attach(txn)
		}
	}

	txns, cardholders := g.finish(p.opts.Names, p.opts.DropNullAmounts)
	res.Transactions = txns[:0]
	for _, txn := range txns {
		if strings.Contains(strings.ToUpper(txn.Description), svbPaymentMarker) {
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	res.Cardholders = cardholders
	assignIDs(res.CardType, res.Transactions)

	log.Debug().
		Int("lines", len(lines)).
		Int("transactions", len(res.Transactions)).
		Strs("cardholders", res.Cardholders).
		Msg("svb statement parsed")
	return res, nil
}

// parseRow reads one transaction row and the MCC / merchant ZIP printed on
// the two lines below it, stopping early at the next row. Rows whose last
// token is not an amount are not transactions.
func (p *SVBParser) parseRow(lines []string, i int) (models.Transaction, bool) {
	m := svbTxnPattern.FindStringSubmatch(normalizeLine(lines[i]))
	if m == nil {
		return models.Transaction{}, false
	}
	amount := parseUSDAmount(m[3])
	if amount == nil {
		return models.Transaction{}, false
	}

	txn := models.Transaction{
		Date:        isoDate(m[1], "01-02-06"),
		Description: strings.TrimSpace(m[2]),
		Amount:      amount,
	}

	var below []string
	for k := i + 1; k < i+3 && k < len(lines); k++ {
		if p.classifier.Classify(lines, k) == ClassTransactionStart {
			break
		}
		below = append(below, normalizeLine(lines[k]))
	}
	detail := strings.Join(below, " ")
	if mm := svbMCCPattern.FindStringSubmatch(detail); mm != nil {
		txn.MCC = mm[1]
	}
	if zm := svbZipPattern.FindStringSubmatch(detail); zm != nil {
		txn.MerchantZip = zm[1]
	}
	return txn, true
}
