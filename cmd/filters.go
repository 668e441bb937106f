package cmd

import (
	"fmt"
	"strconv"

	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/spf13/cobra"
)

func newFiltersCmd(opts *rootOptions) *cobra.Command {
	filtersCmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage exclusion filters",
		Long: `Manage the stored exclusion filters.

A filter pairs a kind (video_id, video_title, playlist_id, playlist_name,
privacy_status, type, category, orator, track_number) with a value. Videos
matching any filter are marked inactive and left out of dashboards and
playlists. Title filters match case-insensitive substrings.`,
	}

	filtersCmd.AddCommand(
		newFiltersListCmd(opts),
		newFiltersAddCmd(opts),
		newFiltersDeleteCmd(opts),
		newFiltersImportCmd(opts),
		newFiltersExportCmd(opts),
		newFiltersApplyCmd(opts),
		newFiltersPreviewCmd(opts),
	)
	return filtersCmd
}

func newFiltersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := e.svc.Filters.ListFilters(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			renderTable(w, sheets.FiltersTable(list), 0)
			fmt.Fprintf(w, "%d filters\n", len(list))
			return nil
		},
	}
}

func newFiltersAddCmd(opts *rootOptions) *cobra.Command {
	var kind, value, title string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a filter",
		Long: `Store a filter. It takes effect on the next ingest or apply.

Example:
  playlist-api filters add --type video_title --value "private"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := e.svc.Filters.CreateFilter(cmd.Context(), kind, value, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added filter %d: %s = %q\n", f.ID, f.Kind, f.Value)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "", "filter kind")
	cmd.Flags().StringVarP(&value, "value", "v", "", "value to match")
	cmd.Flags().StringVar(&title, "title", "", "title of the video the filter was written for")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newFiltersDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid filter id %q", args[0])
			}

			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.svc.Filters.DeleteFilter(cmd.Context(), uint(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted filter %d\n", id)
			return nil
		},
	}
}

func newFiltersImportCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store every filter in a sheet",
		Long: `Store the filters in a sheet with filter_type, filter_value and
optionally matched_video_title columns. Invalid rows are reported and
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			f, fmtUsed, err := openTableFile(args[0], format, e.defaultFormat())
			if err != nil {
				return err
			}
			rows, err := sheets.ReadFilterRows(f, fmtUsed)
			_ = f.Close()
			if err != nil {
				return err
			}

			result, err := e.svc.Filters.ImportFilters(cmd.Context(), rows)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Imported %d filters, skipped %d\n", result.Imported, result.Skipped)
			renderRowErrors(w, result.Errors)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "sheet format, overriding the file extension (xlsx, csv)")
	return cmd
}

func newFiltersExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the stored filters to a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := e.svc.Filters.ListFilters(cmd.Context())
			if err != nil {
				return err
			}
			format, err := writeTableFile(args[0], e.defaultFormat(), sheets.FiltersTable(list))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d filters to %s (%s)\n", len(list), args[0], format)
			return nil
		},
	}
}

func newFiltersApplyCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Re-evaluate every video against the filters",
		Long: `Mark every stored video active or inactive against the stored filters,
or against the filters in --file without storing them, then rebuild the
dashboards and playlists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			set, err := readOptionalFilterSet(file, e)
			if err != nil {
				return err
			}
			result, err := e.svc.Filters.ApplyFilters(cmd.Context(), set)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			renderTable(w, sheets.Table{
				Headers: []string{"evaluated", "deactivated", "reactivated", "active"},
				Rows: [][]string{{
					strconv.Itoa(result.Evaluated),
					strconv.Itoa(result.DeactivatedCount),
					strconv.Itoa(result.ReactivatedCount),
					strconv.Itoa(result.ActiveCount),
				}},
			}, 0, 1, 2, 3)
			renderRowErrors(w, result.Errors)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "filter sheet to apply instead of the stored filters")
	return cmd
}

func newFiltersPreviewCmd(opts *rootOptions) *cobra.Command {
	var kind, value string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "List the active videos one filter would exclude",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			videos, err := e.svc.Filters.Preview(cmd.Context(), kind, value)
			if err != nil {
				return err
			}
			t := sheets.Table{Headers: []string{"video_id", "video_title", "channel_id"}}
			for _, v := range videos {
				t.Rows = append(t.Rows, []string{v.VideoID, v.Title, v.ChannelID})
			}
			w := cmd.OutOrStdout()
			renderTable(w, t)
			fmt.Fprintf(w, "%d videos match\n", len(videos))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "", "filter kind")
	cmd.Flags().StringVarP(&value, "value", "v", "", "value to match")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// readOptionalFilterSet returns nil, meaning the stored filters, when path
// is empty.
func readOptionalFilterSet(path string, e *env) ([]models.VideoFilter, error) {
	if path == "" {
		return nil, nil
	}
	return readFilterSet(path, e.defaultFormat())
}
