package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/netinv-backend/internal/app"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the inventory and import tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			pg, err := app.OpenDB(log, cfg)
			if err != nil {
				return err
			}
			return pg.Close()
		},
	}
}
