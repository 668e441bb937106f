package filters

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/playlist-api/internal/dbctx"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/testutil"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) RefreshAll(dbc dbctx.Context) error {
	args := m.Called(dbc)
	return args.Error(0)
}

func setupService(t *testing.T, opts ...ServiceOption) (*ServiceImpl, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewService(db, NewRepository(db), opts...), db
}

func activeFlags(t *testing.T, db *gorm.DB) map[string]bool {
	var videos []models.Video
	require.NoError(t, db.Find(&videos).Error)
	flags := make(map[string]bool, len(videos))
	for _, v := range videos {
		flags[v.VideoID] = v.IsActive
	}
	return flags
}

func TestCreateFilter(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	t.Run("stores canonical kind", func(t *testing.T) {
		f, err := svc.CreateFilter(ctx, "by-title-substring", " private ", "My Private Talk")
		require.NoError(t, err)
		assert.NotZero(t, f.ID)
		assert.Equal(t, string(KindTitle), f.Kind)
		assert.Equal(t, "private", f.Value)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := svc.CreateFilter(ctx, "by-colour", "red", "")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	})

	t.Run("rejects empty value", func(t *testing.T) {
		_, err := svc.CreateFilter(ctx, "video_id", "", "")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingField))
	})
}

func TestGetAndDeleteFilter(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	f, err := svc.CreateFilter(ctx, "video_id", "abc", "")
	require.NoError(t, err)

	got, err := svc.GetFilter(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Value)

	require.NoError(t, svc.DeleteFilter(ctx, f.ID))

	_, err = svc.GetFilter(ctx, f.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	assert.ErrorIs(t, err, ErrFilterNotFound)

	err = svc.DeleteFilter(ctx, f.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestImportFilters(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.ImportFilters(ctx, []FilterRow{
		{Kind: "video_id", Value: "v1"},
		{Kind: "", Value: "orphan value"},
		{Kind: "playlist_name", Value: ""},
		{Kind: "by-orator-substring", Value: "swami", MatchedTitle: "Katha 1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)

	stored, err := svc.ListFilters(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, string(KindOrator), stored[1].Kind)
	assert.Equal(t, "Katha 1", stored[1].MatchedTitle)
}

func TestApplyFilters(t *testing.T) {
	refresher := &mockRefresher{}
	refresher.On("RefreshAll", mock.Anything).Return(nil).Once()

	svc, db := setupService(t, WithRefresher(refresher))
	ctx := context.Background()

	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v1", Title: "My Private Talk"})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v2", Title: "Evening Dhun", Inactive: true})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v3", Title: "Morning Kirtan"})

	result, err := svc.ApplyFilters(ctx, []models.VideoFilter{
		{Kind: string(KindTitle), Value: "private"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Evaluated)
	assert.Equal(t, 1, result.DeactivatedCount)
	assert.Equal(t, 1, result.ReactivatedCount)
	assert.Equal(t, 2, result.ActiveCount)
	assert.Equal(t, map[string]bool{"v1": false, "v2": true, "v3": true}, activeFlags(t, db))
	refresher.AssertExpectations(t)
}

func TestApplyFiltersUsesStoredFiltersWhenNil(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v1", Title: "A", PlaylistID: "PL-X", PlaylistName: "Archive"})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v2", Title: "B"})

	_, err := svc.CreateFilter(ctx, "playlist_name", "archive", "")
	require.NoError(t, err)

	result, err := svc.ApplyFilters(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DeactivatedCount)
	assert.Equal(t, map[string]bool{"v1": false, "v2": true}, activeFlags(t, db))

	// Running again with nothing changed is a no-op.
	result, err = svc.ApplyFilters(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.DeactivatedCount)
	assert.Zero(t, result.ReactivatedCount)
}

func TestApplyFiltersRollsBackWhenRefreshFails(t *testing.T) {
	refresher := &mockRefresher{}
	refresher.On("RefreshAll", mock.Anything).Return(errors.New("refresh failed"))

	svc, db := setupService(t, WithRefresher(refresher))
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v1", Title: "private one"})

	_, err := svc.ApplyFilters(context.Background(), []models.VideoFilter{{Kind: "video_title", Value: "private"}})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTransaction))

	assert.Equal(t, map[string]bool{"v1": true}, activeFlags(t, db))
}

func TestApplyFiltersReportsMalformedRows(t *testing.T) {
	svc, db := setupService(t)
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v1", Title: "x"})

	result, err := svc.ApplyFilters(context.Background(), []models.VideoFilter{
		{Kind: "", Value: "x"},
		{Kind: "video_id", Value: "v1"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.DeactivatedCount)
}

func TestPreview(t *testing.T) {
	svc, db := setupService(t)
	testutil.SeedVideo(t, db, testutil.VideoSeed{
		VideoID: "v1", Title: "Katha 1",
		Detail: &models.VideoDetail{Orator: "Swami A", SourceWork: "NA"},
	})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v2", Title: "Katha 2"})

	matched, err := svc.Preview(context.Background(), "by-orator-substring", "swami")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "v1", matched[0].VideoID)

	_, err = svc.Preview(context.Background(), "video_id", "")
	assert.Error(t, err)
}
