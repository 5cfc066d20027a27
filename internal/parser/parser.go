package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/barbaramelovalor031/expenses-valor/internal/fx"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
	"github.com/barbaramelovalor031/expenses-valor/internal/names"
)

var (
	// ErrUnsupportedCard is returned by New for an unknown card type.
	ErrUnsupportedCard = errors.New("unsupported card type")
	// ErrUndetectedCard is returned when no issuer marker is found.
	ErrUndetectedCard = errors.New("could not auto-detect card type from statement content; please specify it explicitly")
)

// Parser defines the interface for credit-card statement parsers.
type Parser interface {
	// Parse takes raw text from PDF pages and returns the extracted transactions.
	Parse(ctx context.Context, pages []string) (*models.ExtractResult, error)
	// CardName returns the human-readable issuer name.
	CardName() string
}

// Options are the collaborators and policy shared by all parsers.
type Options struct {
	// Names canonicalizes cardholder names. Defaults to names.Default().
	Names *names.Table
	// FX converts BRL amounts. Only Bradesco uses it; when nil, BRL rows get
	// no rate and a nil amount.
	FX *fx.Converter
	// DropNullAmounts removes transactions whose amount is nil instead of
	// passing them on.
	DropNullAmounts bool
	// Now supplies the fallback year for statements that print none.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Names == nil {
		o.Names = names.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New returns the appropriate parser for the given card type.
func New(cardType models.CardType, opts Options) (Parser, error) {
	opts = opts.withDefaults()
	switch cardType {
	case models.CardAmex:
		return NewAmexParser(opts), nil
	case models.CardSVB:
		return NewSVBParser(opts), nil
	case models.CardBradesco:
		return NewBradescoParser(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCard, cardType)
	}
}

// Extract parses pages with the parser for card. An empty card is
// auto-detected from the text.
func Extract(ctx context.Context, pages []string, card models.CardType, opts Options) (*models.ExtractResult, error) {
	if card == "" {
		detected, err := AutoDetect(pages)
		if err != nil {
			return nil, err
		}
		card = detected
	}
	p, err := New(card, opts)
	if err != nil {
		return nil, err
	}
	res, err := p.Parse(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("parsing %s statement: %w", p.CardName(), err)
	}
	return res, nil
}

// detectMarkers are statement phrases that identify the issuer.
var detectMarkers = []struct {
	card    models.CardType
	needles []string
}{
	{models.CardBradesco, []string{"bradesco", "data histórico", "data historico", "cotação", "cotacao"}},
	{models.CardSVB, []string{"silicon valley bank", "svb", "total for account ending in"}},
	{models.CardAmex, []string{"american express", "americanexpress.com", "amex"}},
}

// AutoDetect tries to identify the issuer from the statement text.
func AutoDetect(pages []string) (models.CardType, error) {
	combined := strings.ToLower(strings.Join(pages, "\n"))
	for _, m := range detectMarkers {
		for _, needle := range m.needles {
			if strings.Contains(combined, needle) {
				return m.card, nil
			}
		}
	}
	return "", ErrUndetectedCard
}

// trace records what the parser did with one line.
func trace(res *models.ExtractResult, i int, line string, class LineClass, result string) {
	res.DebugLines = append(res.DebugLines, models.DebugLine{
		LineNum: i + 1,
		Text:    line,
		Class:   class.String(),
		Result:  result,
	})
}
