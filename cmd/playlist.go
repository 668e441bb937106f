package cmd

import (
	"fmt"

	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/spf13/cobra"
)

func newPlaylistCmd(opts *rootOptions) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Generate and inspect family playlists",
	}

	generateCmd := &cobra.Command{
		Use:   "generate <family>",
		Short: "Regenerate a family playlist",
		Long: `Reshuffle the family's playlist from its current partitions, replacing
the stored one. Dashboards are not rebuilt; use refresh for that.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			result, err := e.svc.Playlists.GeneratePlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			mode := "interleaved"
			if result.Fallback {
				mode = "fallback"
			}
			fmt.Fprintf(w, "Generated %d entries for %s (%s)\n", result.EntryCount, result.Family, mode)
			if result.Skipped > 0 {
				fmt.Fprintf(w, "Skipped %d unlinked entries\n", result.Skipped)
			}
			return nil
		},
	}

	var out string
	showCmd := &cobra.Command{
		Use:   "show <family>",
		Short: "Print a family playlist",
		Long: `Print the family's stored playlist in order. --out writes it to a
sheet instead (.xlsx or .csv).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			entries, err := e.svc.Playlists.ListPlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			t := sheets.PlaylistTable(entries)
			if out != "" {
				if len(entries) == 0 {
					return fmt.Errorf("playlist %s is empty", args[0])
				}
				format, err := writeTableFile(out, e.defaultFormat(), t)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %d entries to %s (%s)\n", len(entries), out, format)
				return nil
			}
			renderTable(w, t, 0)
			fmt.Fprintf(w, "%d entries\n", len(entries))
			return nil
		},
	}
	showCmd.Flags().StringVarP(&out, "out", "o", "", "write to this sheet instead of printing")

	playlistCmd.AddCommand(generateCmd, showCmd)
	return playlistCmd
}
