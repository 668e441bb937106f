package filters_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/apitest"
	"github.com/killallgit/playlist-api/api/filters"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	deps, db := apitest.NewDeps(t)
	router := gin.New()
	filters.RegisterRoutes(router.Group("/filters"), deps)
	return router, db
}

func TestCreateGetDelete(t *testing.T) {
	router, _ := setupRouter(t)

	w := apitest.JSON(t, router, http.MethodPost, "/filters", map[string]string{
		"filter_type":  "by-title-substring",
		"filter_value": "private",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.FilterResponse
	apitest.Decode(t, w, &created)
	assert.Equal(t, "video_title", created.Filter.Kind)

	path := fmt.Sprintf("/filters/%d", created.Filter.ID)
	w = apitest.Do(router, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = apitest.Do(router, http.MethodGet, "/filters", nil, "")
	var list types.FiltersResponse
	apitest.Decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = apitest.Do(router, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = apitest.Do(router, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateErrors(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"missing value", map[string]string{"filter_type": "video_id"}, http.StatusBadRequest},
		{"unknown kind", map[string]string{"filter_type": "colour", "filter_value": "red"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apitest.JSON(t, router, http.MethodPost, "/filters", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	w := apitest.Do(router, http.MethodGet, "/filters/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportAndExport(t *testing.T) {
	router, _ := setupRouter(t)

	w := apitest.Do(router, http.MethodGet, "/filters/export", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing to export yet")

	csv := "filter_type,filter_value,matched_video_title\nvideo_title,private,My Private Talk\n,orphan,\nvideo_id,v9,\n"
	body, contentType := apitest.Multipart(t, "filters.csv", []byte(csv), nil)
	w = apitest.Do(router, http.MethodPost, "/filters/import", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var imported types.ImportResponse
	apitest.Decode(t, w, &imported)
	assert.Equal(t, types.StatusPartial, imported.Status)
	assert.Equal(t, 2, imported.Result.Imported)
	assert.Equal(t, 1, imported.Result.Skipped)

	w = apitest.Do(router, http.MethodGet, "/filters/export?format=csv", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "filter_id,filter_type,filter_value,matched_video_title,timestamp", lines[0])
	assert.Contains(t, lines[1], "video_title,private,My Private Talk")
}

func TestApplyAndPreview(t *testing.T) {
	router, db := setupRouter(t)
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v1", Title: "My Private Talk"})
	testutil.SeedVideo(t, db, testutil.VideoSeed{VideoID: "v2", Title: "Public Talk", Inactive: true})

	w := apitest.JSON(t, router, http.MethodPost, "/filters/preview", map[string]string{
		"filter_type":  "video_title",
		"filter_value": "PRIVATE",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview types.PreviewResponse
	apitest.Decode(t, w, &preview)
	require.Equal(t, 1, preview.Count)
	assert.Equal(t, "v1", preview.Videos[0].VideoID)

	w = apitest.JSON(t, router, http.MethodPost, "/filters/apply", map[string]interface{}{
		"filters": []map[string]string{{"filter_type": "video_title", "filter_value": "private"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var applied types.ApplyResponse
	apitest.Decode(t, w, &applied)
	assert.Equal(t, 1, applied.Result.DeactivatedCount)
	assert.Equal(t, 1, applied.Result.ReactivatedCount)

	var v1 models.Video
	require.NoError(t, db.Where("video_id = ?", "v1").First(&v1).Error)
	assert.False(t, v1.IsActive)

	// No body applies the stored filters, of which there are none.
	w = apitest.Do(router, http.MethodPost, "/filters/apply", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	apitest.Decode(t, w, &applied)
	assert.Equal(t, 0, applied.Result.DeactivatedCount)
	assert.Equal(t, 1, applied.Result.ReactivatedCount)
	assert.Equal(t, 2, applied.Result.ActiveCount)
}
