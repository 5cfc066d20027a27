package parser

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

// transactionNamespace scopes the name-based UUIDs given to transactions.
var transactionNamespace = uuid.MustParse("6f1c2b7e-4f0a-5d8e-9b3a-2c4d5e6f7a8b")

// assignIDs gives every transaction a UUIDv5 derived from its content, so
// re-extracting the same statement yields the same identifiers. Identical
// rows are told apart by their occurrence count.
func assignIDs(card models.CardType, txns []models.Transaction) {
	seen := make(map[string]int)
	for i := range txns {
		key := transactionKey(card, txns[i])
		n := seen[key]
		seen[key] = n + 1
		txns[i].ID = uuid.NewSHA1(transactionNamespace, []byte(key+"|"+strconv.Itoa(n))).String()
	}
}

func transactionKey(card models.CardType, txn models.Transaction) string {
	amount := "null"
	if txn.Amount != nil {
		amount = strconv.FormatFloat(*txn.Amount, 'f', 2, 64)
	}
	if txn.AmountBRL != nil {
		amount += "/" + strconv.FormatFloat(*txn.AmountBRL, 'f', 2, 64)
	}
	return strings.Join([]string{
		string(card), txn.Date, txn.Cardholder, txn.Description, amount,
	}, "|")
}
