package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/barbaramelovalor031/expenses-valor/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				g.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, g)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(ctx context.Context, g *globals) error {
	table, err := g.cfg.NameTable()
	if err != nil {
		return err
	}
	app := api.NewApp(api.NewHandler(g.cfg, table, g.cfg.RateProvider(), g.log))

	errCh := make(chan error, 1)
	go func() {
		g.log.Info().Str("addr", g.cfg.Server.Addr).Msg("listening")
		errCh <- app.Listen(g.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	g.log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
