package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/sheets"
)

// renderTable draws t for a terminal. Columns listed in right are
// right-aligned.
func renderTable(w io.Writer, t sheets.Table, right ...int) {
	if len(t.Headers) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, len(t.Headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(right))
	for _, col := range right {
		configs = append(configs, table.ColumnConfig{
			Number:      col + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	tw.Render()
}

// renderRowErrors lists row-level failures, if any
func renderRowErrors(w io.Writer, errs []models.RowError) {
	if len(errs) == 0 {
		return
	}
	t := sheets.Table{Headers: []string{"row", "video_id", "code", "message"}}
	for _, e := range errs {
		t.Rows = append(t.Rows, []string{strconv.Itoa(e.Row), e.VideoID, e.Code, e.Message})
	}
	fmt.Fprintf(w, "%d row error(s):\n", len(errs))
	renderTable(w, t, 0)
}

// writeTableFile writes t to path in the format its extension names
func writeTableFile(path string, def sheets.Format, t sheets.Table) (sheets.Format, error) {
	format := sheets.FormatFromFilename(path, def)
	f, err := os.Create(path)
	if err != nil {
		return format, fmt.Errorf("creating %s: %w", path, err)
	}
	if err := sheets.Write(f, format, t); err != nil {
		_ = f.Close()
		return format, err
	}
	return format, f.Close()
}

// openTableFile opens path and reports the format its extension names,
// unless override is set.
func openTableFile(path, override string, def sheets.Format) (*os.File, sheets.Format, error) {
	format := sheets.FormatFromFilename(path, def)
	if override != "" {
		f, err := sheets.ParseFormat(override)
		if err != nil {
			return nil, "", err
		}
		format = f
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	return file, format, nil
}

// defaultFormat is the configured sheet format, xlsx when unset
func (e *env) defaultFormat() sheets.Format {
	f, err := sheets.ParseFormat(e.cfg.Ingestion.DefaultFormat)
	if err != nil {
		return sheets.FormatXLSX
	}
	return f
}
