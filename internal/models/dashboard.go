package models

import "time"

// DashboardEntry is one row of a family's derived subset. The table is
// cleared and rebuilt per family on every refresh.
type DashboardEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Family       string    `json:"family" gorm:"not null;index:idx_dashboard_family_pos"`
	Position     int       `json:"position" gorm:"not null;index:idx_dashboard_family_pos"`
	VideoRef     uint      `json:"video_ref" gorm:"not null;index"`
	Video        *Video    `json:"-" gorm:"foreignKey:VideoRef;constraint:OnDelete:CASCADE"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id"`
	TypeName     string    `json:"type_name"`
	CategoryName string    `json:"category_name"`
	SourceWork   string    `json:"source_work"`
	CreatedAt    time.Time `json:"created_at"`
}

// PartitionEntry is a dashboard row assigned to one of the family's three
// partitions.
type PartitionEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Family       string    `json:"family" gorm:"not null;index:idx_partition_lookup"`
	Partition    string    `json:"partition" gorm:"column:partition_name;not null;index:idx_partition_lookup"`
	Position     int       `json:"position" gorm:"not null"`
	VideoRef     uint      `json:"video_ref" gorm:"not null;index"`
	Video        *Video    `json:"-" gorm:"foreignKey:VideoRef;constraint:OnDelete:CASCADE"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id"`
	TypeName     string    `json:"type_name"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlaylistEntry is one slot of a generated playlist. Ordinals are 1-based
// and contiguous within a family.
type PlaylistEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Family       string    `json:"family" gorm:"not null;uniqueIndex:idx_playlist_family_ordinal"`
	Ordinal      int       `json:"ordinal" gorm:"not null;uniqueIndex:idx_playlist_family_ordinal"`
	Partition    string    `json:"partition" gorm:"column:partition_name"`
	VideoRef     uint      `json:"video_ref" gorm:"not null;index"`
	Video        *Video    `json:"-" gorm:"foreignKey:VideoRef;constraint:OnDelete:CASCADE"`
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id"`
	TypeName     string    `json:"type_name"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}
