package models

import "time"

// VideoFilter is an exclusion rule. Rules are never edited, only created
// and deleted.
type VideoFilter struct {
	ID           uint      `json:"filter_id" gorm:"primaryKey"`
	Kind         string    `json:"filter_type" gorm:"not null;index"`
	Value        string    `json:"filter_value" gorm:"not null"`
	MatchedTitle string    `json:"matched_video_title"`
	CreatedAt    time.Time `json:"timestamp"`
}
