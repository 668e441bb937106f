// Package dashboards rebuilds the per-family derived views of the active
// catalog: the family subset and its three partitions.
package dashboards

import (
	"sort"
	"strings"

	"github.com/killallgit/playlist-api/internal/models"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
)

// Partition is one of a family's three sub-groups. Needle is matched,
// lower-cased, as a substring of the type or category name.
type Partition struct {
	Name   string `json:"name"`
	Needle string `json:"needle"`
}

// Family describes one dashboard: which videos belong to it and how they
// split into partitions. Partitions[0] drives playlist generation.
type Family struct {
	Keyword string `json:"keyword"`

	// Excludes are compound labels that disqualify a video even when the
	// keyword matches.
	Excludes []string `json:"excludes"`

	// IncludeLabels qualify a video whose type or category equals one of
	// them exactly.
	IncludeLabels []string `json:"include_labels"`

	// SourceWorkInclusion admits videos whose detail source work contains
	// the keyword.
	SourceWorkInclusion bool `json:"source_work_inclusion"`

	Partitions [3]Partition `json:"partitions"`
}

// Built-in families.
var (
	Dhun = Family{
		Keyword:             "dhun",
		Excludes:            []string{"kirtan/instrumental/dhun"},
		IncludeLabels:       []string{"Dhun Jukebox"},
		SourceWorkInclusion: true,
		Partitions: [3]Partition{
			{Name: "streamed", Needle: "streamed dhun"},
			{Name: "lyrical", Needle: "lyrical video"},
			{Name: "jukebox", Needle: "dhun jukebox"},
		},
	}

	Kirtan = Family{
		Keyword:             "kirtan",
		Excludes:            []string{"kirtan/instrumental/dhun"},
		IncludeLabels:       []string{"Kirtan Jukebox"},
		SourceWorkInclusion: true,
		Partitions: [3]Partition{
			{Name: "streamed", Needle: "streamed kirtan"},
			{Name: "lyrical", Needle: "lyrical video"},
			{Name: "jukebox", Needle: "kirtan jukebox"},
		},
	}
)

// Member reports whether v belongs to the family. Active status is not
// considered here.
func (f *Family) Member(v *models.Video) bool {
	typ := strings.ToLower(v.TypeName())
	cat := strings.ToLower(v.CategoryName())

	for _, ex := range f.Excludes {
		ex = strings.ToLower(ex)
		if strings.Contains(typ, ex) || strings.Contains(cat, ex) {
			return false
		}
	}

	kw := strings.ToLower(f.Keyword)
	if strings.Contains(typ, kw) || strings.Contains(cat, kw) {
		return true
	}
	for _, label := range f.IncludeLabels {
		if v.TypeName() == label || v.CategoryName() == label {
			return true
		}
	}
	return f.SourceWorkInclusion && strings.Contains(strings.ToLower(v.SourceWork()), kw)
}

// PartitionOf returns the index of the first partition whose needle
// matches typeName or categoryName, or -1.
func (f *Family) PartitionOf(typeName, categoryName string) int {
	typ := strings.ToLower(typeName)
	cat := strings.ToLower(categoryName)
	for i, p := range f.Partitions {
		needle := strings.ToLower(p.Needle)
		if strings.Contains(typ, needle) || strings.Contains(cat, needle) {
			return i
		}
	}
	return -1
}

// Partition looks a partition up by name, case-insensitively.
func (f *Family) Partition(name string) (int, bool) {
	for i, p := range f.Partitions {
		if strings.EqualFold(p.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Registry holds the enabled families keyed by lower-cased keyword.
type Registry struct {
	families map[string]*Family
}

// NewRegistry builds a registry over families.
func NewRegistry(families ...Family) *Registry {
	r := &Registry{families: make(map[string]*Family, len(families))}
	for i := range families {
		f := families[i]
		r.families[strings.ToLower(f.Keyword)] = &f
	}
	return r
}

// DefaultRegistry returns the built-in families.
func DefaultRegistry() *Registry {
	return NewRegistry(Dhun, Kirtan)
}

// Enabled narrows r to the given keywords. An empty list keeps every
// family; an unknown keyword is a configuration error.
func (r *Registry) Enabled(keywords []string) (*Registry, error) {
	if len(keywords) == 0 {
		return r, nil
	}
	out := &Registry{families: make(map[string]*Family, len(keywords))}
	for _, kw := range keywords {
		f, ok := r.families[strings.ToLower(strings.TrimSpace(kw))]
		if !ok {
			return nil, apperrors.ConfigError("dashboards.families", "unknown family "+kw)
		}
		out.families[strings.ToLower(f.Keyword)] = f
	}
	return out, nil
}

// Lookup finds a family by keyword.
func (r *Registry) Lookup(keyword string) (*Family, error) {
	f, ok := r.families[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return nil, apperrors.NotFound("family", keyword)
	}
	return f, nil
}

// Families returns every family sorted by keyword.
func (r *Registry) Families() []*Family {
	out := make([]*Family, 0, len(r.families))
	for _, f := range r.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keyword < out[j].Keyword })
	return out
}
