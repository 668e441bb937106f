// Package extractor pulls labelled attributes out of free-text video
// descriptions. Descriptions look like:
//
//	Orator: Swami X
//	Sabha Number: 7
//	Granth Name: Vachanamrut
//	Category: Katha
//	Sub Category: Streamed Katha
//
// Values run to the end of the line or the first '<'. Labels are case
// sensitive. Anything missing falls back to a default.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/killallgit/playlist-api/internal/models"
)

// Field identifies one extractable attribute.
type Field = models.Labels

const (
	FieldOrator     = models.LabelOrator
	FieldTrack      = models.LabelTrack
	FieldSourceWork = models.LabelSourceWork
	FieldType       = models.LabelType
	FieldCategory   = models.LabelCategory
)

// Attributes is the structured view of a description.
type Attributes struct {
	Orator     string
	Track      int
	SourceWork string
	Type       string
	Category   string

	found Field
}

// Has reports whether f was present in the description, as opposed to
// holding its default.
func (a Attributes) Has(f Field) bool {
	return a.found&f != 0
}

// Labels returns every field that was present.
func (a Attributes) Labels() models.Labels {
	return a.found
}

// HasNonDefaultDetail reports whether orator, track or source work carry
// something other than their defaults.
func (a Attributes) HasNonDefaultDetail() bool {
	return a.Orator != models.DefaultOrator ||
		a.Track != 0 ||
		a.SourceWork != models.DefaultSourceWork
}

var (
	oratorPattern     = labelPattern("Orator")
	trackPattern      = regexp.MustCompile(`Sabha Number:[ \t]*(\d+)`)
	sourceWorkPattern = labelPattern("Granth Name")
	categoryPattern   = labelPattern("Category")
	subCategoryPrefix = "Sub "
	typeAliasPattern  = labelPattern("Type")
)

func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + `:[ \t]*([^\n<]+)`)
}

// Extract parses description. It never fails; an empty description yields
// all defaults.
func Extract(description string) Attributes {
	a := Attributes{
		Orator:     models.DefaultOrator,
		SourceWork: models.DefaultSourceWork,
		Type:       models.DefaultType,
		Category:   models.DefaultCategory,
	}
	if description == "" {
		return a
	}

	if v, ok := firstValue(oratorPattern, description); ok {
		a.Orator, a.found = v, a.found|FieldOrator
	}
	if m := trackPattern.FindStringSubmatch(description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.Track, a.found = n, a.found|FieldTrack
		}
	}
	if v, ok := firstValue(sourceWorkPattern, description); ok {
		a.SourceWork, a.found = v, a.found|FieldSourceWork
	}
	if v, ok := categoryValue(description, false); ok {
		a.Type, a.found = v, a.found|FieldType
	}

	// "Sub Category:" names the category; older uploads used "Type:".
	if v, ok := categoryValue(description, true); ok {
		a.Category, a.found = v, a.found|FieldCategory
	} else if v, ok := firstValue(typeAliasPattern, description); ok {
		a.Category, a.found = v, a.found|FieldCategory
	}

	return a
}

func firstValue(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}

// categoryValue returns the first non-empty "Category:" value. With sub set
// it only considers "Sub Category:" labels, otherwise it skips them, so a
// description carrying only "Sub Category:" keeps the default type.
func categoryValue(s string, sub bool) (string, bool) {
	for _, loc := range categoryPattern.FindAllStringSubmatchIndex(s, -1) {
		if strings.HasSuffix(s[:loc[0]], subCategoryPrefix) != sub {
			continue
		}
		if v := strings.TrimSpace(s[loc[2]:loc[3]]); v != "" {
			return v, true
		}
	}
	return "", false
}
