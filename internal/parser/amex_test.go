package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbaramelovalor031/expenses-valor/internal/models"
)

func parseAmex(t *testing.T, opts Options, pages ...string) *models.ExtractResult {
	t.Helper()
	res, err := NewAmexParser(opts).Parse(context.Background(), pages)
	require.NoError(t, err)
	return res
}

func TestAmexParser_SingleLine(t *testing.T) {
	res := parseAmex(t, Options{}, "SCOTT SOBEL\nCARD ENDING 1234\n01/15/24 UBER TRIP HELP.UBER.COM $25.00")

	require.Len(t, res.Transactions, 1)
	txn := res.Transactions[0]
	assert.Equal(t, "2024-01-15", txn.Date)
	assert.Equal(t, "UBER TRIP HELP.UBER.COM", txn.Description)
	require.NotNil(t, txn.Amount)
	assert.Equal(t, 25.00, *txn.Amount)
	assert.Equal(t, "Scott Sobel", txn.Cardholder)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, []string{"Scott Sobel"}, res.Cardholders)
	assert.Equal(t, models.CardAmex, res.CardType)
}

func TestAmexParser_MultiLineBlock(t *testing.T) {
	page1 := "M. NICKLAS\nCard Ending 1-11111\n01/20/24 DELTA AIR LINES\nATLANTA GA\nForeign Spend Amount: 200.00 EUR\np. 1/2"
	page2 := "Continued on next page\n$215.10\n01/21/24 STARBUCKS $4.50"
	res := parseAmex(t, Options{}, page1, page2)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "DELTA AIR LINES ATLANTA GA", res.Transactions[0].Description)
	require.NotNil(t, res.Transactions[0].Amount)
	assert.Equal(t, 215.10, *res.Transactions[0].Amount)
	assert.Equal(t, "STARBUCKS", res.Transactions[1].Description)
	for _, txn := range res.Transactions {
		assert.Equal(t, "Michael Nicklas", txn.Cardholder)
	}
}

func TestAmexParser_SkipsFeesAndInterest(t *testing.T) {
	text := `SCOTT SOBEL
Card Ending 1-23456
01/15/24 STORE A $10.00
Fees
01/20/24 LATE FEE $39.00
Total Fees for this Period $39.00
Interest Charged
01/25/24 INTEREST CHARGE ON PURCHASES $12.00
p. 2/4
01/26/24 STORE B $20.00`
	res := parseAmex(t, Options{}, text)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "STORE A", res.Transactions[0].Description)
	assert.Equal(t, "STORE B", res.Transactions[1].Description)
	for _, txn := range res.Transactions {
		assert.NotContains(t, txn.Description, "FEE")
		assert.NotContains(t, txn.Description, "INTEREST")
	}
}

func TestAmexParser_HeaderEndsSkipSection(t *testing.T) {
	text := `SCOTT SOBEL
Card Ending 1-23456
Fees
01/20/24 LATE FEE $39.00
CLIFFORD A. SOBEL
Card Ending 2-34567
01/22/24 HOTEL $300.00`
	res := parseAmex(t, Options{}, text)

	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "HOTEL", res.Transactions[0].Description)
	assert.Equal(t, "Clifford Sobel", res.Transactions[0].Cardholder)
	assert.Equal(t, []string{"Scott Sobel", "Clifford Sobel"}, res.Cardholders)
}

func TestAmexParser_DropsTransactionsBeforeFirstHeader(t *testing.T) {
	text := "01/01/24 ORPHAN CHARGE $5.00\nSCOTT SOBEL\nCard Ending 1-23456\n01/15/24 STORE $10.00"
	res := parseAmex(t, Options{}, text)

	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "STORE", res.Transactions[0].Description)
}

func TestAmexParser_NullAmounts(t *testing.T) {
	text := "SCOTT SOBEL\nCard Ending 1-23456\n01/15/24 MYSTERY CHARGE\n01/16/24 STORE $10.00"

	kept := parseAmex(t, Options{}, text)
	require.Len(t, kept.Transactions, 2)
	assert.Nil(t, kept.Transactions[0].Amount)
	assert.Equal(t, "MYSTERY CHARGE", kept.Transactions[0].Description)

	dropped := parseAmex(t, Options{DropNullAmounts: true}, text)
	require.Len(t, dropped.Transactions, 1)
	assert.Equal(t, "STORE", dropped.Transactions[0].Description)
}

func TestAmexParser_GroupsCardholdersInOrder(t *testing.T) {
	text := `J. D. SMITH
Card Ending 3-00000
01/02/24 TAXI $15.00
SCOTT SOBEL
Card Ending 1-23456
01/03/24 LUNCH $30.00
JOHN D SMITH
Account Ending 3-00000
01/04/24 DINNER $45.00`
	res := parseAmex(t, Options{}, text)

	require.Len(t, res.Transactions, 3)
	assert.Equal(t, []string{"John Douglas Smith", "Scott Sobel"}, res.Cardholders)
	assert.Equal(t, "John Douglas Smith", res.Transactions[0].Cardholder)
	assert.Equal(t, "Scott Sobel", res.Transactions[1].Cardholder)
	assert.Equal(t, "John Douglas Smith", res.Transactions[2].Cardholder)
}

func TestAmexParser_EmptyInput(t *testing.T) {
	res := parseAmex(t, Options{})

	assert.NotNil(t, res.Transactions)
	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Cardholders)
}

func TestAmexParser_DebugTrace(t *testing.T) {
	res := parseAmex(t, Options{}, "SCOTT SOBEL\nCard Ending 1-23456\n01/15/24 STORE\n$10.00")

	require.Len(t, res.DebugLines, 4)
	assert.Equal(t, "header", res.DebugLines[0].Result)
	assert.Equal(t, "skipped", res.DebugLines[1].Result)
	assert.Equal(t, "parsed", res.DebugLines[2].Result)
	assert.Equal(t, "continuation", res.DebugLines[3].Result)
	assert.Equal(t, 4, res.DebugLines[3].LineNum)
}
