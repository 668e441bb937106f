package classifier

import "strings"

// Topic keywords. A label containing one of these sets the matching flag.
const (
	KeywordKatha  = "katha"
	KeywordKirtan = "kirtan"
	KeywordDhun   = "dhun"
	KeywordMix    = "mix"
)

// Flags are the four topic booleans stored on a video.
type Flags struct {
	Mix    bool `json:"is_mix"`
	Katha  bool `json:"is_katha"`
	Kirtan bool `json:"is_kirtan"`
	Dhun   bool `json:"is_dhun"`
}

// Classify derives topic flags from the type and category labels. Mix is
// set when two or more topics match or when either label says "mix".
func Classify(typeLabel, categoryLabel string) Flags {
	t := strings.ToLower(typeLabel)
	c := strings.ToLower(categoryLabel)
	contains := func(kw string) bool {
		return strings.Contains(t, kw) || strings.Contains(c, kw)
	}

	f := Flags{
		Katha:  contains(KeywordKatha),
		Kirtan: contains(KeywordKirtan),
		Dhun:   contains(KeywordDhun),
	}
	f.Mix = f.topicCount() >= 2 || contains(KeywordMix)
	return f
}

func (f Flags) topicCount() int {
	n := 0
	for _, b := range []bool{f.Katha, f.Kirtan, f.Dhun} {
		if b {
			n++
		}
	}
	return n
}

// Any reports whether at least one flag is set.
func (f Flags) Any() bool {
	return f.Mix || f.Katha || f.Kirtan || f.Dhun
}

// Implies reports whether the flag for keyword is set. Unknown keywords
// never match.
func (f Flags) Implies(keyword string) bool {
	switch strings.ToLower(keyword) {
	case KeywordKatha:
		return f.Katha
	case KeywordKirtan:
		return f.Kirtan
	case KeywordDhun:
		return f.Dhun
	case KeywordMix:
		return f.Mix
	}
	return false
}
