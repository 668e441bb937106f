package cmd

import (
	"fmt"

	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/spf13/cobra"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Inspect family dashboards",
	}

	var (
		partition string
		out       string
	)

	showCmd := &cobra.Command{
		Use:   "show <family>",
		Short: "Print a family dashboard or one of its partitions",
		Long: `Print the family's current dashboard, ordered by title, or with
--partition one of its partitions. --out writes the rows to a sheet
instead (.xlsx or .csv).

Example:
  playlist-api dashboard show dhun
  playlist-api dashboard show kirtan --partition streamed --out streamed.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			var (
				t     sheets.Table
				total int64
			)
			if partition != "" {
				page, err := e.svc.Dashboards.ListPartition(cmd.Context(), args[0], partition, 1, -1)
				if err != nil {
					return err
				}
				t, total = sheets.PartitionTable(page.Entries), page.Total
			} else {
				page, err := e.svc.Dashboards.ListDashboard(cmd.Context(), args[0], 1, -1)
				if err != nil {
					return err
				}
				t, total = sheets.DashboardTable(page.Entries), page.Total
			}

			w := cmd.OutOrStdout()
			if out != "" {
				format, err := writeTableFile(out, e.defaultFormat(), t)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %d rows to %s (%s)\n", total, out, format)
				return nil
			}
			renderTable(w, t, 0)
			fmt.Fprintf(w, "%d videos\n", total)
			return nil
		},
	}
	showCmd.Flags().StringVarP(&partition, "partition", "p", "", "partition name (streamed, lyrical, jukebox)")
	showCmd.Flags().StringVarP(&out, "out", "o", "", "write to this sheet instead of printing")

	dashboardCmd.AddCommand(showCmd)
	return dashboardCmd
}
