package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2beens/fitdash/internal/db"
)

func newCheckTablesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check-tables",
		Short:   "Report presence and columns of the tables the API reads from",
		Args:    cobra.NoArgs,
		PreRunE: opts.loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dbPool, err := db.NewDBPool(ctx, opts.dbParams())
			if err != nil {
				return err
			}
			defer dbPool.Close()

			reports, err := db.CheckTables(ctx, dbPool)
			if err != nil {
				return err
			}

			if missing := printReports(cmd.OutOrStdout(), reports); missing > 0 {
				return fmt.Errorf("%d table(s) missing, run migrate", missing)
			}
			return nil
		},
	}
}

func printReports(w io.Writer, reports []db.TableReport) int {
	missing := 0
	for _, report := range reports {
		if !report.Exists {
			missing++
			fmt.Fprintf(w, "%s: MISSING\n", report.Name)
			continue
		}
		fmt.Fprintf(w, "%s: %d columns\n", report.Name, len(report.Columns))
		for _, col := range report.Columns {
			fmt.Fprintf(w, "  - %s (%s)\n", col.Name, col.DataType)
		}
	}
	return missing
}
