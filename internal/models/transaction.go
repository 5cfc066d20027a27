package models

import "encoding/json"

// Transaction represents a single credit-card statement transaction.
//
// Amount is nil when the amount token could not be parsed, or, for BRL
// statements, when no exchange rate was available. It is never a string.
type Transaction struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"` // YYYY-MM-DD, or the raw statement date when it does not parse
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Cardholder  string   `json:"cardholder"`
	AmountBRL   *float64 `json:"amount_brl,omitempty"`
	FXRate      *float64 `json:"fx_rate,omitempty"`
	MCC         string   `json:"mcc,omitempty"`
	MerchantZip string   `json:"merchant_zip,omitempty"`

	// BRL marks records priced in reais. Their amount_brl and fx_rate keys
	// are always written, as null when unknown.
	BRL bool `json:"-"`
}

// MarshalJSON writes amount_brl and fx_rate as explicit nulls on BRL
// records and leaves them out everywhere else.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	if !t.BRL {
		return json.Marshal(plain(t))
	}
	return json.Marshal(struct {
		plain
		AmountBRL *float64 `json:"amount_brl"`
		FXRate    *float64 `json:"fx_rate"`
	}{plain(t), t.AmountBRL, t.FXRate})
}

// CardType represents supported statement issuers.
type CardType string

const (
	CardAmex     CardType = "amex"
	CardSVB      CardType = "svb"
	CardBradesco CardType = "bradesco"
)

// CardTypes lists the supported issuers in display order.
var CardTypes = []CardType{CardAmex, CardSVB, CardBradesco}

// ParseCardType resolves a user-supplied card name. The second return is
// false for unknown names.
func ParseCardType(s string) (CardType, bool) {
	for _, c := range CardTypes {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// CardholderSection is a holder name and the transactions found under it,
// in statement order.
type CardholderSection struct {
	Holder       string
	Transactions []Transaction
}

// DebugLine captures what the parser did with each input line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Class   string `json:"class"`
	Result  string `json:"result"` // "parsed", "skipped", "continuation", "header", "dropped"
}

// ExtractResult is what an extraction run hands to downstream consumers.
type ExtractResult struct {
	CardType     CardType      `json:"card_type"`
	Transactions []Transaction `json:"transactions"`
	Cardholders  []string      `json:"cardholders"`
	DebugLines   []DebugLine   `json:"-"`
}

// Float returns a pointer to v. Handy for building optional amounts.
func Float(v float64) *float64 {
	return &v
}
