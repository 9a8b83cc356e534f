package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/locvowork/excelstyler/internal/bootstrap"
	"github.com/locvowork/excelstyler/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "excelstyler",
		Short:         "Export tables to spreadsheets with per-cell styles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newExportCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newExamplesCommand())

	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP export API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := bootstrap.NewApp()
			if err := app.Initialize(ctx); err != nil {
				logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- app.Run() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				logger.ErrorLog(ctx, "Application failed: %v", err)
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.InfoLog(shutdownCtx, "Shutting down")
			if err := app.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
