package videos

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/testutil"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls int
	err   error
}

func (c *countingRefresher) RefreshAll(dbctx.Context) error {
	c.calls++
	return c.err
}

func ptr[T any](v T) *T { return &v }

func TestListAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, NewRepository(db))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: id, Title: "T " + id, PlaylistID: "PL", PlaylistName: "P"})
	}

	page, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Videos, 1)
	assert.Equal(t, "c", page.Videos[0].VideoID)
	assert.Equal(t, "PL", page.Videos[0].ExternalPlaylistID())

	all, err := svc.List(ctx, 1, -1)
	require.NoError(t, err)
	assert.Len(t, all.Videos, 3)

	v, err := svc.Get(ctx, "b", "")
	require.NoError(t, err)
	assert.Equal(t, "T b", v.Title)
	assert.Equal(t, models.DefaultType, v.TypeName())

	_, err = svc.Get(ctx, "zzz", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	refresher := &countingRefresher{}
	svc := NewService(db, NewRepository(db), WithRefresher(refresher))
	ctx := context.Background()

	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "a", Title: "Old", ChannelID: "C1"})

	v, err := svc.Update(ctx, "a", "", UpdateVideoRequest{
		Title:     ptr("New"),
		ChannelID: ptr("C2"),
		IsActive:  ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", v.Title)
	assert.Equal(t, "C2", v.ChannelID)
	assert.False(t, v.IsActive)
	assert.Equal(t, 1, refresher.calls)
}

func TestUpdateErrors(t *testing.T) {
	db := testutil.NewDB(t)
	refresher := &countingRefresher{}
	svc := NewService(db, NewRepository(db), WithRefresher(refresher))
	ctx := context.Background()

	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "a", Title: "One", ChannelID: "C1"})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "a", Title: "Two", ChannelID: "C2"})

	_, err := svc.Update(ctx, "missing", "", UpdateVideoRequest{Title: ptr("x")})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	_, err = svc.Update(ctx, "a", "C1", UpdateVideoRequest{Title: ptr("  ")})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))

	_, err = svc.Update(ctx, "a", "C1", UpdateVideoRequest{ChannelID: ptr("C2")})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeConflict))

	refresher.err = errors.New("boom")
	_, err = svc.Update(ctx, "a", "C1", UpdateVideoRequest{Title: ptr("Changed")})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransaction))

	v, err := svc.Get(ctx, "a", "C1")
	require.NoError(t, err)
	assert.Equal(t, "One", v.Title)
}

func TestSharedIDNeedsChannel(t *testing.T) {
	db := testutil.NewDB(t)
	refresher := &countingRefresher{}
	svc := NewService(db, NewRepository(db), WithRefresher(refresher))
	ctx := context.Background()

	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "a", Title: "One", ChannelID: "C1"})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "a", Title: "Two", ChannelID: "C2"})

	_, err := svc.Get(ctx, "a", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeConflict))

	_, err = svc.Update(ctx, "a", "", UpdateVideoRequest{Title: ptr("Both?")})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeConflict))
	assert.Zero(t, refresher.calls)

	v, err := svc.Update(ctx, "a", "C2", UpdateVideoRequest{Title: ptr("Second")})
	require.NoError(t, err)
	assert.Equal(t, "C2", v.ChannelID)
	assert.Equal(t, "Second", v.Title)

	first, err := svc.Get(ctx, "a", "C1")
	require.NoError(t, err)
	assert.Equal(t, "One", first.Title)

	_, err = svc.Get(ctx, "a", "C3")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}
