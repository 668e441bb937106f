package models

import "strings"

// RawRecord is one uploaded spreadsheet row. It is consumed during
// ingestion and never stored as is.
type RawRecord struct {
	Row          int    `json:"row"`
	VideoID      string `json:"video_id"`
	Title        string `json:"video_title"`
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Description  string `json:"description"`
	Visibility   string `json:"privacy_status"`
	ChannelID    string `json:"channel_id"`
}

// IsPublic reports whether the row's privacy status is "public".
func (r RawRecord) IsPublic() bool {
	return strings.EqualFold(strings.TrimSpace(r.Visibility), "public")
}
