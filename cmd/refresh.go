package cmd

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/killallgit/playlist-api/internal/services/ingestion"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/spf13/cobra"
)

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [family...]",
		Short: "Rebuild dashboards and playlists",
		Long: `Rebuild the dashboard, partitions and playlist of the named families, or
of every enabled family when none is named, from the active videos.

Example:
  playlist-api refresh
  playlist-api refresh dhun`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			summary, err := e.svc.Ingestion.Refresh(cmd.Context(), args...)
			if err != nil {
				return err
			}
			renderRefresh(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

// renderRefresh prints one line per family. Dashboards and playlists are
// paired by position.
func renderRefresh(w io.Writer, summary *ingestion.RefreshSummary) {
	t := sheets.Table{Headers: []string{"family", "subset", "partitions", "playlist", "fallback"}}
	for i, d := range summary.Dashboards {
		parts := make([]string, 0, len(d.PartitionCounts))
		for _, name := range slices.Sorted(maps.Keys(d.PartitionCounts)) {
			parts = append(parts, name+"="+strconv.Itoa(d.PartitionCounts[name]))
		}
		entries, fallback := "", ""
		if i < len(summary.Playlists) {
			entries = strconv.Itoa(summary.Playlists[i].EntryCount)
			fallback = strconv.FormatBool(summary.Playlists[i].Fallback)
		}
		t.Rows = append(t.Rows, []string{d.Family, strconv.Itoa(d.SubsetCount), strings.Join(parts, " "), entries, fallback})
	}
	renderTable(w, t, 1, 3)
}
