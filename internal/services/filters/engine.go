package filters

import (
	"strconv"
	"strings"

	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/services/extractor"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
)

// Kind is the type of an exclusion filter.
type Kind string

const (
	KindVideoID      Kind = "video_id"
	KindTitle        Kind = "video_title"
	KindPlaylistID   Kind = "playlist_id"
	KindPlaylistName Kind = "playlist_name"
	KindVisibility   Kind = "privacy_status"
	KindType         Kind = "type"
	KindCategory     Kind = "category"
	KindOrator       Kind = "orator"
	KindTrackNumber  Kind = "track_number"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{
	KindVideoID,
	KindTitle,
	KindPlaylistID,
	KindPlaylistName,
	KindVisibility,
	KindType,
	KindCategory,
	KindOrator,
	KindTrackNumber,
}

var kindAliases = map[string]Kind{
	"by-id":                      KindVideoID,
	"by-title-substring":         KindTitle,
	"by-playlist-id":             KindPlaylistID,
	"by-playlist-name-substring": KindPlaylistName,
	"by-visibility":              KindVisibility,
	"by-type-substring":          KindType,
	"by-category-substring":      KindCategory,
	"by-orator-substring":        KindOrator,
	"by-track-number":            KindTrackNumber,
}

// ParseKind accepts a kind by its stored name or its by-* alias.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	k, ok := kindAliases[s]
	return k, ok
}

// Candidate holds the values a filter can match against. An empty string
// or nil Track means the value is absent, and absent values never match.
type Candidate struct {
	VideoID      string
	Title        string
	PlaylistID   string
	PlaylistName string
	Visibility   string
	Type         string
	Category     string
	Orator       string
	Track        *int
}

// CandidateFromRaw builds a candidate from an uploaded row and the
// attributes extracted from its description. Labels that were not present
// in the description stay absent.
func CandidateFromRaw(videoID, title, playlistID, playlistName, visibility string, attrs extractor.Attributes) Candidate {
	c := Candidate{
		VideoID:      videoID,
		Title:        title,
		PlaylistID:   playlistID,
		PlaylistName: playlistName,
		Visibility:   visibility,
	}
	if attrs.Has(extractor.FieldType) {
		c.Type = attrs.Type
	}
	if attrs.Has(extractor.FieldCategory) {
		c.Category = attrs.Category
	}
	if attrs.Has(extractor.FieldOrator) {
		c.Orator = attrs.Orator
	}
	if attrs.Has(extractor.FieldTrack) {
		track := attrs.Track
		c.Track = &track
	}
	return c
}

// CandidateFromVideo builds a candidate from a stored video. Type, Category,
// Playlist and Detail should be preloaded. A value counts as present only
// when its label was recorded at ingest, matching CandidateFromRaw.
func CandidateFromVideo(v *models.Video) Candidate {
	c := Candidate{
		VideoID:      v.VideoID,
		Title:        v.Title,
		PlaylistID:   v.ExternalPlaylistID(),
		PlaylistName: v.PlaylistName(),
		Visibility:   v.Visibility,
	}
	if v.Labels.Has(models.LabelType) {
		c.Type = v.TypeName()
	}
	if v.Labels.Has(models.LabelCategory) {
		c.Category = v.CategoryName()
	}

	// Without a detail row the extracted orator and track were defaults.
	if v.Labels.Has(models.LabelOrator) {
		c.Orator = models.DefaultOrator
		if v.Detail != nil {
			c.Orator = v.Detail.Orator
		}
	}
	if v.Labels.Has(models.LabelTrack) {
		track := 0
		if v.Detail != nil {
			track = v.Detail.TrackNumber
		}
		c.Track = &track
	}
	return c
}

type rule struct {
	filter models.VideoFilter
	kind   Kind
	value  string
	number *float64
}

// Engine evaluates candidates against a fixed set of filters.
type Engine struct {
	rules []rule
}

// NewEngine compiles filters. Rows with a missing or unknown kind, or an
// empty value, are skipped and reported as validation errors.
func NewEngine(filters []models.VideoFilter) (*Engine, []error) {
	e := &Engine{rules: make([]rule, 0, len(filters))}
	var errs []error

	for _, f := range filters {
		if err := ValidateFilter(f.Kind, f.Value); err != nil {
			errs = append(errs, err.WithDetail("filter_id", f.ID))
			continue
		}
		kind, _ := ParseKind(f.Kind)
		r := rule{filter: f, kind: kind, value: strings.TrimSpace(f.Value)}

		switch kind {
		case KindTitle, KindPlaylistName, KindType, KindCategory, KindOrator, KindVisibility:
			r.value = strings.ToLower(r.value)
		case KindTrackNumber:
			if n, err := strconv.ParseFloat(r.value, 64); err == nil {
				r.number = &n
			}
		}
		e.rules = append(e.rules, r)
	}
	return e, errs
}

// ValidateFilter checks that kind is known and value is non-empty.
func ValidateFilter(kind, value string) *apperrors.AppError {
	if strings.TrimSpace(kind) == "" {
		return apperrors.MissingFieldError("filter_type")
	}
	if _, ok := ParseKind(kind); !ok {
		return apperrors.ValidationError("filter_type", "unknown filter type "+strconv.Quote(kind))
	}
	if strings.TrimSpace(value) == "" {
		return apperrors.MissingFieldError("filter_value")
	}
	return nil
}

// Len returns the number of usable rules.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Excludes reports whether any rule matches c and returns the first one
// that did. Evaluation stops at the first match.
func (e *Engine) Excludes(c Candidate) (bool, *models.VideoFilter) {
	for i := range e.rules {
		if e.rules[i].matches(c) {
			f := e.rules[i].filter
			return true, &f
		}
	}
	return false, nil
}

func (r *rule) matches(c Candidate) bool {
	switch r.kind {
	case KindVideoID:
		return equalPresent(c.VideoID, r.value)
	case KindPlaylistID:
		return equalPresent(c.PlaylistID, r.value)
	case KindTitle:
		return containsFold(c.Title, r.value)
	case KindPlaylistName:
		return containsFold(c.PlaylistName, r.value)
	case KindType:
		return containsFold(c.Type, r.value)
	case KindCategory:
		return containsFold(c.Category, r.value)
	case KindOrator:
		return containsFold(c.Orator, r.value)
	case KindVisibility:
		return c.Visibility != "" && strings.ToLower(c.Visibility) == r.value
	case KindTrackNumber:
		if c.Track == nil {
			return false
		}
		if r.number != nil {
			return float64(*c.Track) == *r.number
		}
		return strconv.Itoa(*c.Track) == r.value
	}
	return false
}

func equalPresent(have, want string) bool {
	return have != "" && have == want
}

// containsFold expects needle already lower-cased.
func containsFold(haystack, needle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), needle)
}
