package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/barbaramelovalor031/expenses-valor/internal/api"
	"github.com/barbaramelovalor031/expenses-valor/internal/config"
	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
)

// globals are the persistent flags and what PersistentPreRunE builds from them.
type globals struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "expenses",
		Short:   "Extract transactions from credit-card statement PDFs",
		Version: api.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to expenses.yaml (defaults built in)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newExtractCommand(g))
	rootCmd.AddCommand(newServeCommand(g))
	rootCmd.AddCommand(newNamesCommand(g))
	rootCmd.AddCommand(newConfigCommand(g))

	return rootCmd
}

func (g *globals) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	var base zerolog.Logger
	switch cfg.Log.Format {
	case "", "console":
		base = logger.NewConsole(cmd.ErrOrStderr())
	case "json":
		base = logger.NewWithWriter(cmd.ErrOrStderr())
	default:
		return fmt.Errorf("invalid log format %q: use console or json", cfg.Log.Format)
	}

	g.cfg = cfg
	g.log = logger.WithLevel(base, cfg.Log.Level)
	return nil
}
