package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbaramelovalor031/expenses-valor/internal/fx"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, fx.DefaultPTAXBaseURL, cfg.FX.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.FX.Timeout)
	assert.Equal(t, 7, cfg.FX.MaxAttempts)
	assert.False(t, cfg.Extract.DropNullAmounts)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.yaml")
	content := `server:
  addr: ":9090"
fx:
  timeout: 3s
extract:
  drop_null_amounts: true
names:
  aliases:
    "scotty": "Scott Sobel"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, 3*time.Second, cfg.FX.Timeout)
	assert.Equal(t, fx.DefaultPTAXBaseURL, cfg.FX.BaseURL)
	assert.True(t, cfg.Extract.DropNullAmounts)

	table, err := cfg.NameTable()
	require.NoError(t, err)
	assert.Equal(t, "Scott Sobel", table.Normalize("SCOTTY"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.yaml")
	cfg := Default()
	cfg.FX.MaxAttempts = 3
	cfg.Names.Canonical = []string{"Jane Roe"}

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNameTable_CustomCanonical(t *testing.T) {
	cfg := Default()
	cfg.Names.Canonical = []string{"Jane Roe"}
	cfg.Names.Aliases = map[string]string{"j. roe": "Jane Roe"}

	table, err := cfg.NameTable()
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", table.Normalize("J. Roe"))
	assert.Equal(t, []string{"Jane Roe"}, table.Canonical())
}

func TestNameTable_UnknownCanonical(t *testing.T) {
	cfg := Default()
	cfg.Names.Aliases = map[string]string{"someone": "Nobody Known"}
	_, err := cfg.NameTable()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("EXPENSES_ADDR", ":7000")
	t.Setenv("EXPENSES_PTAX_URL", "http://localhost:1234/odata")
	t.Setenv("EXPENSES_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:1234/odata", cfg.FX.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
