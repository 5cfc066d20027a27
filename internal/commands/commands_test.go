package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/barbaramelovalor031/expenses-valor/internal/config"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
	"github.com/barbaramelovalor031/expenses-valor/internal/names"
)

const amexStatement = "American Express\nSCOTT SOBEL\nCard Ending 1-23456\n01/15/24 UBER TRIP HELP.UBER.COM $25.00\f" +
	"M. NICKLAS\nCard Ending 1-11111\n01/20/24 DELTA AIR LINES\nATLANTA GA\n$215.10"

func runExpenses(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeText(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract_JSONToStdout(t *testing.T) {
	path := writeText(t, "statement.txt", amexStatement)

	stdout, _, err := runExpenses(t, "extract", "--no-fx", path)
	require.NoError(t, err)

	var res models.ExtractResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res), stdout)
	assert.Equal(t, models.CardAmex, res.CardType)
	assert.Equal(t, []string{"Scott Sobel", "Michael Nicklas"}, res.Cardholders)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "DELTA AIR LINES ATLANTA GA", res.Transactions[1].Description)
	assert.Equal(t, 215.10, *res.Transactions[1].Amount)
}

func TestExtract_CSVNextToInput(t *testing.T) {
	path := writeText(t, "january.txt", amexStatement)

	_, _, err := runExpenses(t, "extract", "--no-fx", "--format", "csv", "--header=false", path)
	require.NoError(t, err)

	data, err := os.ReadFile(strings.TrimSuffix(path, ".txt") + ".csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Amount,Cardholder", lines[0])
	assert.Equal(t, "2024-01-15,UBER TRIP HELP.UBER.COM,25.00,Scott Sobel", lines[1])
}

func TestExtract_XLSXOutput(t *testing.T) {
	path := writeText(t, "january.txt", amexStatement)
	out := filepath.Join(t.TempDir(), "report.xlsx")

	_, _, err := runExpenses(t, "extract", "--no-fx", "--format", "xlsx", "-o", out, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Scott Sobel", "Michael Nicklas"}, f.GetSheetList())
}

func TestExtract_BradescoUsesPTAX(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("@dataCotacao") == "'01-15-2024'" {
			fmt.Fprint(w, `{"value":[{"cotacaoCompra":4.99,"cotacaoVenda":5.00}]}`)
			return
		}
		fmt.Fprint(w, `{"value":[]}`)
	}))
	defer srv.Close()
	t.Setenv("EXPENSES_PTAX_URL", srv.URL)

	path := writeText(t, "fatura.txt", "Mês: Janeiro/2024\nNome: PAULO PASSONI\n15/01 UBER 50,00 9,00")
	stdout, _, err := runExpenses(t, "extract", "--card", "bradesco", path)
	require.NoError(t, err)

	var res models.ExtractResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, 1.80, *res.Transactions[0].Amount)
	assert.Equal(t, 5.00, *res.Transactions[0].FXRate)
}

func TestExtract_ConfigFile(t *testing.T) {
	cfgPath := writeText(t, "expenses.yaml", "extract:\n  drop_null_amounts: true\nnames:\n  aliases:\n    \"scotty\": \"Scott Sobel\"\n")
	path := writeText(t, "statement.txt", "SCOTTY\nCard Ending 1-23456\n01/15/24 MYSTERY\n01/16/24 STORE $10.00")

	stdout, _, err := runExpenses(t, "--config", cfgPath, "extract", "--card", "amex", "--no-fx", path)
	require.NoError(t, err)

	var res models.ExtractResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Scott Sobel", res.Transactions[0].Cardholder)
}

func TestExtract_Trace(t *testing.T) {
	path := writeText(t, "statement.txt", amexStatement)

	_, stderr, err := runExpenses(t, "extract", "--no-fx", "--trace", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "cardholder-header")
	assert.Contains(t, stderr, "parsed")
}

func TestExtract_Errors(t *testing.T) {
	path := writeText(t, "statement.txt", amexStatement)

	tests := []struct {
		name    string
		args    []string
		errPart string
	}{
		{"unknown card", []string{"extract", "--card", "visa", path}, "unknown card type"},
		{"unknown format", []string{"extract", "--format", "pdf", path}, "unknown format"},
		{"output with many inputs", []string{"extract", "-o", "x.json", path, path}, "single input"},
		{"missing file", []string{"extract", "--no-fx", filepath.Join(t.TempDir(), "missing.pdf")}, "1 of 1 file(s) failed"},
		{"undetectable", []string{"extract", "--no-fx", writeText(t, "other.txt", "hello world")}, "1 of 1 file(s) failed"},
		{"no inputs", []string{"extract"}, "requires at least 1 arg"},
		{"bad log level", []string{"--log-level", "loud", "names"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runExpenses(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestNames(t *testing.T) {
	stdout, _, err := runExpenses(t, "names")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(names.DefaultCanonical, "\n")+"\n", stdout)

	stdout, _, err = runExpenses(t, "names", "M.. NICKLAS", "jane doe")
	require.NoError(t, err)
	assert.Equal(t, "M.. NICKLAS\tMichael Nicklas\njane doe\tJane Doe\n", stdout)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "", outputPath("a/statement.pdf", "", "json"))
	assert.Equal(t, "out.json", outputPath("a/statement.pdf", "out.json", "json"))
	assert.Equal(t, "a/statement.csv", outputPath("a/statement.pdf", "", "csv"))
	assert.Equal(t, "a/statement.xlsx", outputPath("a/statement.pdf", "", "xlsx"))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.yaml")

	stdout, _, err := runExpenses(t, "--log-level", "debug", "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.Default().FX.BaseURL, cfg.FX.BaseURL)

	_, _, err = runExpenses(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runExpenses(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestLogFormat(t *testing.T) {
	path := writeText(t, "statement.txt", amexStatement)
	cfgPath := writeText(t, "expenses.yaml", "log:\n  format: json\n")

	_, stderr, err := runExpenses(t, "--config", cfgPath, "extract", "--no-fx", path)
	require.NoError(t, err)
	line := strings.SplitN(strings.TrimSpace(stderr), "\n", 2)[0]
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry), stderr)
	assert.Equal(t, "statement extracted", entry["message"])
	assert.Equal(t, "statement.txt", entry["file"])

	badPath := writeText(t, "bad.yaml", "log:\n  format: xml\n")
	_, _, err = runExpenses(t, "--config", badPath, "names")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}
