package types

// FilterRequest creates or previews a filter
type FilterRequest struct {
	Kind         string `json:"filter_type" binding:"required" example:"video_title"`
	Value        string `json:"filter_value" binding:"required" example:"private"`
	MatchedTitle string `json:"matched_video_title,omitempty"`
}

// ApplyFiltersRequest applies an explicit filter set. An empty body
// applies the stored filters.
type ApplyFiltersRequest struct {
	Filters []FilterRequest `json:"filters"`
}

// UpdateVideoRequest edits a stored video. Omitted fields are unchanged.
type UpdateVideoRequest struct {
	Title     *string `json:"video_title,omitempty"`
	ChannelID *string `json:"channel_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
