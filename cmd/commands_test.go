package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/killallgit/playlist-api/api/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ingestSample loads the sample sheet for channel C1 into a database in
// dir.
func ingestSample(t *testing.T, dir string) string {
	t.Helper()
	sheet := filepath.Join(dir, "videos.csv")
	require.NoError(t, os.WriteFile(sheet, []byte(apitest.SampleCSV), 0o644))

	out, err := execute(t, dataArgs(dir, "ingest", "--channel", "C1", "--file", sheet)...)
	require.NoError(t, err, out)
	return out
}

func TestIngestCommand(t *testing.T) {
	dir := t.TempDir()
	out := ingestSample(t, dir)

	assert.Contains(t, out, "for channel C1")
	assert.Contains(t, out, "1 row error(s):")
	assert.Contains(t, out, "dhun")
	assert.Contains(t, out, "kirtan")

	_, err := execute(t, dataArgs(dir, "ingest", "--file", filepath.Join(dir, "videos.csv"))...)
	assert.Error(t, err, "channel is required")

	_, err = execute(t, dataArgs(dir, "ingest", "--channel", "C1", "--file", filepath.Join(dir, "missing.csv"))...)
	assert.Error(t, err)

	_, err = execute(t, dataArgs(dir, "ingest", "--channel", "C1", "--file", filepath.Join(dir, "videos.csv"), "--format", "pdf")...)
	assert.Error(t, err)
}

func TestDashboardCommand(t *testing.T) {
	dir := t.TempDir()
	ingestSample(t, dir)

	out, err := execute(t, dataArgs(dir, "dashboard", "show", "dhun")...)
	require.NoError(t, err)
	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "1 videos")

	out, err = execute(t, dataArgs(dir, "dashboard", "show", "kirtan", "--partition", "streamed")...)
	require.NoError(t, err)
	assert.Contains(t, out, "v3")

	export := filepath.Join(dir, "dhun.csv")
	out, err = execute(t, dataArgs(dir, "dashboard", "show", "dhun", "--out", export)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 rows")
	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "position,video_id"))

	_, err = execute(t, dataArgs(dir, "dashboard", "show", "bhajan")...)
	assert.Error(t, err)

	_, err = execute(t, dataArgs(dir, "dashboard", "show", "dhun", "--partition", "live")...)
	assert.Error(t, err)
}

func TestPlaylistCommands(t *testing.T) {
	dir := t.TempDir()
	ingestSample(t, dir)

	out, err := execute(t, dataArgs(dir, "playlist", "show", "kirtan")...)
	require.NoError(t, err)
	assert.Contains(t, out, "v3")
	assert.Contains(t, out, "1 entries")

	out, err = execute(t, dataArgs(dir, "playlist", "generate", "dhun")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 entries for dhun (fallback)")

	export := filepath.Join(dir, "kirtan.csv")
	out, err = execute(t, dataArgs(dir, "playlist", "show", "kirtan", "--out", export)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 entries")
	_, err = os.Stat(export)
	assert.NoError(t, err)

	_, err = execute(t, dataArgs(dir, "playlist", "generate")...)
	assert.Error(t, err, "family argument is required")
}

func TestFiltersCommands(t *testing.T) {
	dir := t.TempDir()
	ingestSample(t, dir)

	out, err := execute(t, dataArgs(dir, "filters", "add", "--type", "by-title-substring", "--value", "collection")...)
	require.NoError(t, err)
	assert.Contains(t, out, `Added filter 1: video_title = "collection"`)

	out, err = execute(t, dataArgs(dir, "filters", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "1 filters")

	out, err = execute(t, dataArgs(dir, "filters", "preview", "--type", "video_id", "--value", "v3")...)
	require.NoError(t, err)
	assert.Contains(t, out, "1 videos match")

	// Applying the stored filter drops v2 from the dhun dashboard
	_, err = execute(t, dataArgs(dir, "filters", "apply")...)
	require.NoError(t, err)
	out, err = execute(t, dataArgs(dir, "dashboard", "show", "dhun")...)
	require.NoError(t, err)
	assert.Contains(t, out, "0 videos")

	export := filepath.Join(dir, "filters.csv")
	out, err = execute(t, dataArgs(dir, "filters", "export", export)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 filters")

	out, err = execute(t, dataArgs(dir, "filters", "delete", "1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted filter 1")

	_, err = execute(t, dataArgs(dir, "filters", "delete", "1")...)
	assert.Error(t, err, "already deleted")
	_, err = execute(t, dataArgs(dir, "filters", "delete", "abc")...)
	assert.Error(t, err)

	out, err = execute(t, dataArgs(dir, "filters", "import", export)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 filters, skipped 0")

	_, err = execute(t, dataArgs(dir, "filters", "add", "--type", "colour", "--value", "red")...)
	assert.Error(t, err)
}

func TestFiltersApplyFromFile(t *testing.T) {
	dir := t.TempDir()
	ingestSample(t, dir)

	sheet := filepath.Join(dir, "adhoc.csv")
	require.NoError(t, os.WriteFile(sheet, []byte("filter_type,filter_value\nvideo_id,v3\n"), 0o644))

	_, err := execute(t, dataArgs(dir, "filters", "apply", "--file", sheet)...)
	require.NoError(t, err)

	out, err := execute(t, dataArgs(dir, "playlist", "show", "kirtan")...)
	require.NoError(t, err)
	assert.Contains(t, out, "0 entries")

	// The ad-hoc set was not stored
	out, err = execute(t, dataArgs(dir, "filters", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "0 filters")
}

func TestRefreshCommand(t *testing.T) {
	dir := t.TempDir()
	ingestSample(t, dir)

	out, err := execute(t, dataArgs(dir, "refresh", "kirtan")...)
	require.NoError(t, err)
	assert.Contains(t, out, "kirtan")
	assert.Contains(t, out, "streamed=1")
	assert.NotContains(t, out, "dhun")

	_, err = execute(t, dataArgs(dir, "refresh", "bhajan")...)
	assert.Error(t, err)
}
