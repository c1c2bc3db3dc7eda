package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/netinv-backend/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var drainTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the import workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, log, cfg)
			if err != nil {
				return err
			}
			a.RecoverInterrupted(ctx)

			errCh := make(chan error, 1)
			go func() { errCh <- a.Run() }()

			select {
			case err = <-errCh:
			case <-ctx.Done():
				log.Info("Shutting down", "drain_timeout", drainTimeout)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
			if serr := a.Shutdown(shutdownCtx); serr != nil {
				log.Warn("Shutdown incomplete", "error", serr)
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&drainTimeout, "drain-timeout", 2*time.Minute, "How long running imports may take to finish on shutdown")
	return cmd
}
