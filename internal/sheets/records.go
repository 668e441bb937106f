package sheets

import (
	"io"
	"strconv"
	"time"

	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/filters"
)

// Upload column headers.
const (
	ColVideoID       = "Video Id"
	ColVideoTitle    = "Video Title"
	ColPlaylistID    = "Playlist Id"
	ColPlaylistName  = "Playlist Name"
	ColDescription   = "Description"
	ColPrivacyStatus = "Privacy Status"
)

// Filter column headers.
const (
	ColFilterType   = "filter_type"
	ColFilterValue  = "filter_value"
	ColMatchedTitle = "matched_video_title"
)

// ReadRecords parses an upload. The id and title columns must exist; the
// others are optional. Row numbers refer to spreadsheet lines.
func ReadRecords(r io.Reader, f Format) ([]models.RawRecord, error) {
	t, err := ReadTable(r, f)
	if err != nil {
		return nil, err
	}
	if _, err := t.require(ColVideoID, ColVideoTitle); err != nil {
		return nil, err
	}

	var (
		id          = t.column(ColVideoID)
		title       = t.column(ColVideoTitle)
		playlistID  = t.column(ColPlaylistID)
		playlist    = t.column(ColPlaylistName)
		description = t.column(ColDescription)
		privacy     = t.column(ColPrivacyStatus)
	)

	records := make([]models.RawRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := models.RawRecord{
			Row:          t.Line(i),
			VideoID:      cell(row, id),
			Title:        cell(row, title),
			PlaylistID:   cell(row, playlistID),
			PlaylistName: cell(row, playlist),
			Visibility:   cell(row, privacy),
		}
		if description >= 0 && description < len(row) {
			rec.Description = row[description]
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFilterRows parses a filter import. The type and value columns must
// exist; rows are returned unvalidated.
func ReadFilterRows(r io.Reader, f Format) ([]filters.FilterRow, error) {
	t, err := ReadTable(r, f)
	if err != nil {
		return nil, err
	}
	cols, err := t.require(ColFilterType, ColFilterValue)
	if err != nil {
		return nil, err
	}
	matched := t.column(ColMatchedTitle)

	rows := make([]filters.FilterRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, filters.FilterRow{
			Kind:         cell(row, cols[0]),
			Value:        cell(row, cols[1]),
			MatchedTitle: cell(row, matched),
		})
	}
	return rows, nil
}

// RecordsTable renders raw records with the upload headers, so an export
// can be uploaded again.
func RecordsTable(records []models.RawRecord) Table {
	t := Table{Headers: []string{
		ColVideoID, ColVideoTitle, ColPlaylistID, ColPlaylistName, ColDescription, ColPrivacyStatus,
	}}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.VideoID, r.Title, r.PlaylistID, r.PlaylistName, r.Description, r.Visibility})
	}
	return t
}

// FiltersTable renders stored filters in the import layout plus their
// id and creation time.
func FiltersTable(list []models.VideoFilter) Table {
	t := Table{Headers: []string{"filter_id", ColFilterType, ColFilterValue, ColMatchedTitle, "timestamp"}}
	for _, f := range list {
		t.Rows = append(t.Rows, []string{
			strconv.FormatUint(uint64(f.ID), 10),
			f.Kind,
			f.Value,
			f.MatchedTitle,
			f.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return t
}

// DashboardTable renders a family subset.
func DashboardTable(entries []models.DashboardEntry) Table {
	t := Table{Headers: []string{"position", "video_id", "video_title", "channel_id", "type_name", "category_name", "source_work"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.Position), e.VideoID, e.Title, e.ChannelID, e.TypeName, e.CategoryName, e.SourceWork,
		})
	}
	return t
}

// PartitionTable renders one partition.
func PartitionTable(entries []models.PartitionEntry) Table {
	t := Table{Headers: []string{"position", "video_id", "video_title", "channel_id", "type_name", "category_name"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.Position), e.VideoID, e.Title, e.ChannelID, e.TypeName, e.CategoryName,
		})
	}
	return t
}

// PlaylistTable renders a generated playlist in ordinal order.
func PlaylistTable(entries []models.PlaylistEntry) Table {
	t := Table{Headers: []string{"playlist_order", "partition", "video_id", "video_title", "channel_id", "type_name", "category_name"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(e.Ordinal), e.Partition, e.VideoID, e.Title, e.ChannelID, e.TypeName, e.CategoryName,
		})
	}
	return t
}
