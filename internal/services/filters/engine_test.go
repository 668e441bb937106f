package filters

import (
	"testing"

	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/extractor"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"video_id", KindVideoID, true},
		{"by-id", KindVideoID, true},
		{"BY-TITLE-SUBSTRING", KindTitle, true},
		{" privacy_status ", KindVisibility, true},
		{"by-track-number", KindTrackNumber, true},
		{"by-category-substring", KindCategory, true},
		{"nonsense", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestEngineMatching(t *testing.T) {
	candidate := Candidate{
		VideoID:      "abc123",
		Title:        "My Private Talk",
		PlaylistID:   "PL-1",
		PlaylistName: "Evening Sabha",
		Visibility:   "Public",
		Type:         "Dhun",
		Category:     "Streamed Dhun",
		Orator:       "Swami Gyanjivandasji",
		Track:        intPtr(7),
	}

	tests := []struct {
		name  string
		kind  Kind
		value string
		want  bool
	}{
		{"id exact", KindVideoID, "abc123", true},
		{"id is case sensitive", KindVideoID, "ABC123", false},
		{"id is not a substring match", KindVideoID, "abc", false},
		{"playlist id exact", KindPlaylistID, "PL-1", true},
		{"playlist id case sensitive", KindPlaylistID, "pl-1", false},
		{"title substring ignores case", KindTitle, "private", true},
		{"title substring miss", KindTitle, "public", false},
		{"playlist name substring", KindPlaylistName, "SABHA", true},
		{"visibility exact ignoring case", KindVisibility, "public", true},
		{"visibility is not substring", KindVisibility, "pub", false},
		{"type substring", KindType, "dhu", true},
		{"category substring", KindCategory, "streamed", true},
		{"orator substring", KindOrator, "gyanjivan", true},
		{"track numeric", KindTrackNumber, "7", true},
		{"track numeric with decimals", KindTrackNumber, "7.0", true},
		{"track numeric mismatch", KindTrackNumber, "8", false},
		{"track non numeric falls back to string", KindTrackNumber, "seven", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, errs := NewEngine([]models.VideoFilter{{Kind: string(tt.kind), Value: tt.value}})
			require.Empty(t, errs)
			got, matched := engine.Excludes(candidate)
			assert.Equal(t, tt.want, got)
			if tt.want {
				require.NotNil(t, matched)
				assert.Equal(t, tt.value, matched.Value)
			}
		})
	}
}

func TestEngineAbsentFieldsNeverMatch(t *testing.T) {
	empty := Candidate{}
	for _, kind := range Kinds {
		engine, errs := NewEngine([]models.VideoFilter{{Kind: string(kind), Value: "0"}})
		require.Empty(t, errs)
		excluded, _ := engine.Excludes(empty)
		assert.False(t, excluded, "kind %s matched an absent field", kind)
	}
}

func TestEngineFirstMatchWins(t *testing.T) {
	engine, errs := NewEngine([]models.VideoFilter{
		{ID: 1, Kind: "video_title", Value: "nothing-here"},
		{ID: 2, Kind: "video_id", Value: "v1"},
		{ID: 3, Kind: "video_title", Value: "talk"},
	})
	require.Empty(t, errs)

	excluded, matched := engine.Excludes(Candidate{VideoID: "v1", Title: "A talk"})
	assert.True(t, excluded)
	require.NotNil(t, matched)
	assert.Equal(t, uint(2), matched.ID)
}

func TestEngineByIDExcludesRegardlessOfOtherFilters(t *testing.T) {
	engine, _ := NewEngine([]models.VideoFilter{
		{Kind: "privacy_status", Value: "private"},
		{Kind: "playlist_name", Value: "does not match"},
		{Kind: "by-id", Value: "target"},
	})

	for _, c := range []Candidate{
		{VideoID: "target"},
		{VideoID: "target", Title: "Anything", Visibility: "public"},
		{VideoID: "target", PlaylistName: "Other", Track: intPtr(3)},
	} {
		excluded, _ := engine.Excludes(c)
		assert.True(t, excluded)
	}
}

func TestEngineSkipsMalformedFilters(t *testing.T) {
	engine, errs := NewEngine([]models.VideoFilter{
		{ID: 1, Kind: "", Value: "x"},
		{ID: 2, Kind: "video_title", Value: "   "},
		{ID: 3, Kind: "unknown_kind", Value: "x"},
		{ID: 4, Kind: "video_title", Value: "keep"},
	})

	assert.Len(t, errs, 3)
	for _, err := range errs {
		assert.True(t, apperrors.IsRowLevel(err))
	}
	assert.Equal(t, 1, engine.Len())
}

func TestCandidateFromRaw(t *testing.T) {
	attrs := extractor.Extract("Orator: X\nSabha Number: 2")
	c := CandidateFromRaw("v1", "Title", "PL", "Playlist", "public", attrs)

	assert.Equal(t, "X", c.Orator)
	require.NotNil(t, c.Track)
	assert.Equal(t, 2, *c.Track)
	assert.Empty(t, c.Type, "missing Category label must stay absent")
	assert.Empty(t, c.Category)
}

func TestCandidateFromVideo(t *testing.T) {
	v := &models.Video{
		VideoID:    "v1",
		Title:      "T",
		Visibility: "private",
		Type:       &models.Type{Name: models.DefaultType},
		Category:   &models.Category{Name: "Lyrical Video"},
		Playlist:   &models.Playlist{PlaylistID: "PL", Name: "Name"},
		Detail:     &models.VideoDetail{Orator: models.DefaultOrator, TrackNumber: 4},
		Labels:     models.LabelCategory | models.LabelTrack,
	}

	c := CandidateFromVideo(v)
	assert.Equal(t, "PL", c.PlaylistID)
	assert.Equal(t, "Name", c.PlaylistName)
	assert.Empty(t, c.Type)
	assert.Equal(t, "Lyrical Video", c.Category)
	assert.Empty(t, c.Orator)
	require.NotNil(t, c.Track)
	assert.Equal(t, 4, *c.Track)
}

func TestCandidatesAgreeOnPresence(t *testing.T) {
	engine, errs := NewEngine([]models.VideoFilter{
		{ID: 1, Kind: string(KindTrackNumber), Value: "0"},
		{ID: 2, Kind: string(KindOrator), Value: "NA"},
		{ID: 3, Kind: string(KindType), Value: "Default"},
	})
	require.Empty(t, errs)

	tests := []struct {
		name        string
		description string
		detail      *models.VideoDetail
		excluded    bool
	}{
		{name: "explicit zero track", description: "Sabha Number: 0", excluded: true},
		{name: "explicit NA orator", description: "Orator: NA", excluded: true},
		{name: "explicit default type", description: "Category: Default", excluded: true},
		{name: "no labels", description: "", excluded: false},
		{
			name:        "explicit zero track with detail",
			description: "Orator: Swami X\nSabha Number: 0",
			detail:      &models.VideoDetail{Orator: "Swami X", TrackNumber: 0},
			excluded:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := extractor.Extract(tt.description)
			fromRaw, _ := engine.Excludes(CandidateFromRaw("v1", "T", "", "", "", attrs))

			stored := &models.Video{
				VideoID:  "v1",
				Title:    "T",
				Type:     &models.Type{Name: attrs.Type},
				Category: &models.Category{Name: attrs.Category},
				Detail:   tt.detail,
				Labels:   attrs.Labels(),
			}
			fromVideo, _ := engine.Excludes(CandidateFromVideo(stored))

			assert.Equal(t, tt.excluded, fromRaw)
			assert.Equal(t, fromRaw, fromVideo)
		})
	}
}
