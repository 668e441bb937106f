package models

import "time"

// Defaults recorded when a description carries no matching label.
const (
	DefaultType       = "Default"
	DefaultCategory   = "Uncategorized"
	DefaultOrator     = "NA"
	DefaultSourceWork = "NA"
)

// Labels records which description labels were present at ingest, so a
// stored default can be told apart from a value that was actually written.
type Labels uint8

const (
	LabelOrator Labels = 1 << iota
	LabelTrack
	LabelSourceWork
	LabelType
	LabelCategory
)

// Has reports whether every bit in l is set.
func (l Labels) Has(bits Labels) bool {
	return l&bits == bits
}

// Type is the top level classification axis (Katha, Kirtan, Dhun, ...).
type Type struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is a sub classification. Names are unique across all types, so
// an upsert with a different TypeID moves the category to that type.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	TypeID    uint      `json:"type_id" gorm:"not null;index"`
	Type      *Type     `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Playlist is an external grouping keyed by its upstream identifier.
type Playlist struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PlaylistID string    `json:"playlist_id" gorm:"uniqueIndex;not null"`
	Name       string    `json:"name"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Video is the canonical record for one uploaded row. There is at most one
// row per (video_id, channel_id).
type Video struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	VideoID     string    `json:"video_id" gorm:"not null;uniqueIndex:idx_video_channel"`
	ChannelID   string    `json:"channel_id" gorm:"not null;uniqueIndex:idx_video_channel;index"`
	Title       string    `json:"title" gorm:"not null;index"`
	Visibility  string    `json:"visibility"`
	PlaylistRef *uint     `json:"playlist_ref"`
	Playlist    *Playlist `json:"playlist,omitempty" gorm:"foreignKey:PlaylistRef;constraint:OnDelete:SET NULL"`
	TypeID      uint      `json:"type_id" gorm:"not null;index"`
	Type        *Type     `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`

	// Topic flags derived from the type and category labels
	IsMix    bool `json:"is_mix" gorm:"not null"`
	IsKatha  bool `json:"is_katha" gorm:"not null"`
	IsKirtan bool `json:"is_kirtan" gorm:"not null"`
	IsDhun   bool `json:"is_dhun" gorm:"not null"`

	// IsActive is false when an exclusion filter matches
	IsActive bool `json:"is_active" gorm:"not null;index"`

	Labels Labels `json:"labels" gorm:"not null;default:0"`

	Detail    *VideoDetail `json:"detail,omitempty" gorm:"foreignKey:VideoRef;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TypeName returns the joined type name or "" when it was not loaded.
func (v *Video) TypeName() string {
	if v.Type == nil {
		return ""
	}
	return v.Type.Name
}

// CategoryName returns the joined category name or "" when it was not loaded.
func (v *Video) CategoryName() string {
	if v.Category == nil {
		return ""
	}
	return v.Category.Name
}

// PlaylistName returns the joined playlist name or "".
func (v *Video) PlaylistName() string {
	if v.Playlist == nil {
		return ""
	}
	return v.Playlist.Name
}

// ExternalPlaylistID returns the upstream playlist identifier or "".
func (v *Video) ExternalPlaylistID() string {
	if v.Playlist == nil {
		return ""
	}
	return v.Playlist.PlaylistID
}

// SourceWork returns the detail's source work or "" when there is no detail.
func (v *Video) SourceWork() string {
	if v.Detail == nil {
		return ""
	}
	return v.Detail.SourceWork
}

// VideoDetail is the optional 1:1 extension of a Video.
type VideoDetail struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	VideoRef     uint      `json:"video_ref" gorm:"not null;uniqueIndex"`
	Orator       string    `json:"orator"`
	TrackNumber  int       `json:"track_number"`
	SourceWork   string    `json:"source_work"`
	PlaylistName string    `json:"playlist_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
