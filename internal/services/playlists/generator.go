// Package playlists generates a family's playlist by interleaving its three
// partitions in a fixed pattern.
package playlists

// Pattern constants. A pass emits GroupSize primary items followed by one
// secondary item, Repeats times, then one tertiary item.
const (
	GroupSize = 4
	Repeats   = 4
)

// Shuffler permutes n elements in place through swap. *math/rand.Rand
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Item is one playlist slot.
type Item struct {
	Ordinal      int    `json:"ordinal"`
	Partition    string `json:"partition"`
	VideoRef     uint   `json:"video_ref"`
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelID    string `json:"channel_id"`
	TypeName     string `json:"type_name"`
	CategoryName string `json:"category_name"`
}

// Generate shuffles primary, secondary and tertiary independently and
// interleaves them. Every pass runs all Repeats groups, so a pass that
// exhausts primary still emits a secondary item after each remaining empty
// group. Secondary and tertiary items repeat cyclically when they run out. When primary is empty the result is the deduplicated,
// shuffled union of secondary and tertiary and fallback is true.
// Ordinals run from 1 without gaps. The inputs are not modified.
func Generate(primary, secondary, tertiary []Item, shuffler Shuffler) (items []Item, fallback bool) {
	a := shuffled(primary, shuffler)
	b := shuffled(secondary, shuffler)
	c := shuffled(tertiary, shuffler)

	if len(a) == 0 {
		return numbered(fallbackMix(b, c, shuffler)), len(b)+len(c) > 0
	}

	out := make([]Item, 0, len(a)+len(a)/GroupSize+len(a)/(GroupSize*Repeats)+2)
	ai, bi, ci := 0, 0, 0
	for ai < len(a) {
		for r := 0; r < Repeats; r++ {
			for g := 0; g < GroupSize && ai < len(a); g++ {
				out = append(out, a[ai])
				ai++
			}
			if len(b) > 0 {
				out = append(out, b[bi%len(b)])
				bi++
			}
		}
		if len(c) > 0 {
			out = append(out, c[ci%len(c)])
			ci++
		}
	}
	return numbered(out), false
}

func shuffled(in []Item, shuffler Shuffler) []Item {
	out := make([]Item, len(in))
	copy(out, in)
	if shuffler != nil && len(out) > 1 {
		shuffler.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func fallbackMix(b, c []Item, shuffler Shuffler) []Item {
	seen := make(map[uint]struct{}, len(b)+len(c))
	out := make([]Item, 0, len(b)+len(c))
	for _, list := range [][]Item{b, c} {
		for _, it := range list {
			if _, dup := seen[it.VideoRef]; dup {
				continue
			}
			seen[it.VideoRef] = struct{}{}
			out = append(out, it)
		}
	}
	return shuffled(out, shuffler)
}

func numbered(items []Item) []Item {
	for i := range items {
		items[i].Ordinal = i + 1
	}
	return items
}
