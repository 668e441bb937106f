package playlists

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identity leaves the order untouched so positions are predictable.
type identity struct{}

func (identity) Shuffle(int, func(i, j int)) {}

func items(partition string, n int) []Item {
	out := make([]Item, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", partition, i+1)
		out[i] = Item{Partition: partition, VideoRef: uint(i + 1), VideoID: id, Title: id}
	}
	return out
}

func partitions(list []Item) string {
	s := ""
	for _, it := range list {
		s += it.Partition
	}
	return s
}

func TestGeneratePattern(t *testing.T) {
	got, fallback := Generate(items("A", 20), items("B", 3), items("C", 2), identity{})
	require.False(t, fallback)

	assert.Equal(t,
		"AAAAB"+"AAAAB"+"AAAAB"+"AAAAB"+"C"+"AAAAB"+"B"+"B"+"B"+"C",
		partitions(got))

	// Secondary items cycle once exhausted.
	var bs []string
	for _, it := range got {
		if it.Partition == "B" {
			bs = append(bs, it.VideoID)
		}
	}
	assert.Equal(t, []string{"B1", "B2", "B3", "B1", "B2", "B3", "B1", "B2"}, bs)
}

func TestGenerateShortPrimary(t *testing.T) {
	got, _ := Generate(items("A", 6), items("B", 1), items("C", 1), identity{})
	// The pass finishes its four groups after primary runs out.
	assert.Equal(t, "AAAAB"+"AAB"+"B"+"B"+"C", partitions(got))
}

func TestGenerateSkipsEmptySecondaryAndTertiary(t *testing.T) {
	got, fallback := Generate(items("A", 5), nil, nil, identity{})
	assert.False(t, fallback)
	assert.Equal(t, "AAAAA", partitions(got))
}

func TestGenerateOrdinalsAreContiguous(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 4, 16, 17, 33, 100} {
		got, _ := Generate(items("A", n), items("B", 5), items("C", 3), rng)
		for i, it := range got {
			assert.Equal(t, i+1, it.Ordinal)
		}
	}
}

func TestGenerateUsesEveryPrimaryItemOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	got, _ := Generate(items("A", 37), items("B", 2), items("C", 2), rng)

	seen := map[string]int{}
	for _, it := range got {
		if it.Partition == "A" {
			seen[it.VideoID]++
		}
	}
	assert.Len(t, seen, 37)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestGenerateFallback(t *testing.T) {
	b := items("B", 3)
	c := items("C", 2)
	for i := range c {
		c[i].VideoRef += 100
	}
	c = append(c, Item{Partition: "C", VideoRef: 1, VideoID: "B1"})

	got, fallback := Generate(nil, b, c, rand.New(rand.NewSource(1)))
	require.True(t, fallback)
	assert.Len(t, got, 5)

	ids := map[string]bool{}
	for i, it := range got {
		assert.False(t, ids[it.VideoID], "duplicate %s", it.VideoID)
		ids[it.VideoID] = true
		assert.NotEqual(t, "A", it.Partition)
		assert.Equal(t, i+1, it.Ordinal)
	}
}

func TestGenerateFallbackKeepsRecordsSharingAnExternalID(t *testing.T) {
	// Same upstream id on two channels is two canonical records
	b := []Item{{Partition: "B", VideoRef: 1, VideoID: "x", ChannelID: "C1"}}
	c := []Item{{Partition: "C", VideoRef: 2, VideoID: "x", ChannelID: "C2"}}

	got, fallback := Generate(nil, b, c, identity{})
	require.True(t, fallback)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].VideoRef)
	assert.Equal(t, uint(2), got[1].VideoRef)
}

func TestGenerateEmpty(t *testing.T) {
	got, fallback := Generate(nil, nil, nil, identity{})
	assert.Empty(t, got)
	assert.False(t, fallback)
}

func TestGenerateDoesNotModifyInputs(t *testing.T) {
	a := items("A", 8)
	Generate(a, nil, nil, rand.New(rand.NewSource(3)))
	assert.Equal(t, items("A", 8), a)
}
