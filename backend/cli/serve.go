package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mehulBhatt911/Studysyn/backend/routes"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Migrates the database on startup and stops gracefully on SIGINT or SIGTERM.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides SERVER_PORT)")

	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, port string) error {
	e, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	if port == "" {
		port = e.cfg.ServerPort
	}
	app := routes.NewApp(e.cfg, e.store, e.log, opts.Clock)

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("listening", zap.String("port", port), zap.String("db", e.cfg.DBDriver))
		errCh <- app.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
