package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/ingestion"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/spf13/cobra"
)

func newIngestCmd(opts *rootOptions) *cobra.Command {
	var (
		channel     string
		file        string
		format      string
		filtersFile string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a spreadsheet of channel videos",
		Long: `Ingest one spreadsheet export for a channel.

The channel's previous videos are replaced, exclusion filters decide which
videos stay active, and every family dashboard and playlist is rebuilt.
All of it commits together or not at all. Rows that cannot be used are
reported and skipped.

By default the stored filters apply; --filters applies a filter sheet
instead without storing it.

Example:
  playlist-api ingest --channel UC123 --file videos.xlsx
  playlist-api ingest --channel UC123 --file videos.csv --filters filters.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			f, fmtUsed, err := openTableFile(file, format, e.defaultFormat())
			if err != nil {
				return err
			}
			records, err := sheets.ReadRecords(f, fmtUsed)
			_ = f.Close()
			if err != nil {
				return err
			}

			batch := ingestion.Batch{
				ChannelID: channel,
				Source:    filepath.Base(file),
				Records:   records,
			}
			if filtersFile != "" {
				if batch.Filters, err = readFilterSet(filtersFile, e.defaultFormat()); err != nil {
					return err
				}
			}

			result, err := e.svc.Ingestion.Ingest(cmd.Context(), batch)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s for channel %s\n", result.RunID, result.ChannelID)
			renderTable(out, sheets.Table{
				Headers: []string{"total", "skipped", "inserted", "active", "errors"},
				Rows: [][]string{{
					strconv.Itoa(result.TotalRows),
					strconv.Itoa(result.SkippedRows),
					strconv.Itoa(result.InsertedCount),
					strconv.Itoa(result.ActiveCount),
					strconv.Itoa(len(result.Errors)),
				}},
			}, 0, 1, 2, 3, 4)
			renderRowErrors(out, result.Errors)
			if result.Refresh != nil {
				renderRefresh(out, result.Refresh)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", "", "channel id the sheet belongs to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "spreadsheet to ingest (.xlsx or .csv)")
	cmd.Flags().StringVar(&format, "format", "", "sheet format, overriding the file extension (xlsx, csv)")
	cmd.Flags().StringVar(&filtersFile, "filters", "", "filter sheet to apply instead of the stored filters")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readFilterSet loads a filter sheet as an ad-hoc filter set. Rows are
// validated by the filter engine when the set is applied.
func readFilterSet(path string, def sheets.Format) ([]models.VideoFilter, error) {
	f, format, err := openTableFile(path, "", def)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := sheets.ReadFilterRows(f, format)
	if err != nil {
		return nil, err
	}
	set := make([]models.VideoFilter, 0, len(rows))
	for _, r := range rows {
		set = append(set, models.VideoFilter{Kind: r.Kind, Value: r.Value, MatchedTitle: r.MatchedTitle})
	}
	return set, nil
}
