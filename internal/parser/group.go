package parser

import (
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
	"github.com/barbaramelovalor031/expenses-valor/internal/names"
)

// grouper keeps cardholder sections in statement order. Each transaction
// belongs to the most recently opened section.
type grouper struct {
	sections []models.CardholderSection
}

// open starts a new section for holder; the previous one is closed.
func (g *grouper) open(holder string) {
	g.sections = append(g.sections, models.CardholderSection{Holder: holder})
}

// hasSection reports whether any section is open.
func (g *grouper) hasSection() bool {
	return len(g.sections) > 0
}

// attach adds txn to the open section. It returns false, dropping txn,
// when no section has been opened yet.
func (g *grouper) attach(txn models.Transaction) bool {
	if len(g.sections) == 0 {
		return false
	}
	cur := &g.sections[len(g.sections)-1]
	cur.Transactions = append(cur.Transactions, txn)
	return true
}

// finish canonicalizes holder names and flattens the sections. Cardholders
// are de-duplicated in first-seen order.
func (g *grouper) finish(table *names.Table, dropNullAmounts bool) ([]models.Transaction, []string) {
	transactions := []models.Transaction{}
	cardholders := []string{}
	seen := make(map[string]bool)

	for _, sec := range g.sections {
		holder := table.Normalize(sec.Holder)
		if !seen[holder] {
			seen[holder] = true
			cardholders = append(cardholders, holder)
		}
		for _, txn := range sec.Transactions {
			if dropNullAmounts && txn.Amount == nil {
				continue
			}
			txn.Cardholder = holder
			transactions = append(transactions, txn)
		}
	}
	return transactions, cardholders
}
