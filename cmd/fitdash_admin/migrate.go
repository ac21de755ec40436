package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/fitdash/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Apply the embedded schema migrations",
		Args:    cobra.NoArgs,
		PreRunE: opts.loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if down {
				if err := db.MigrateDown(opts.dbParams()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all migrations rolled back")
				return nil
			}

			version, err := db.Migrate(opts.dbParams())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back every migration (drops all fitdash tables)")

	return cmd
}
