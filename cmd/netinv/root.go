package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/netinv-backend/internal/app"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type rootOptions struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "netinv",
		Short:        "Radio network inventory import service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", app.DefaultEnvFiles, "Env files loaded when present")
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	return cmd
}

// bootstrap loads configuration and builds the logger shared by every command.
func (o *rootOptions) bootstrap() (app.Config, *logger.Logger, error) {
	cfg, err := app.LoadConfig(o.envFiles...)
	if err != nil {
		return app.Config{}, nil, err
	}
	log, err := logger.NewWithLevel(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return app.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
