package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/killallgit/playlist-api/api/apitest"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/internal/database"
	"github.com/killallgit/playlist-api/internal/testutil"
	"github.com/killallgit/playlist-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8181
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.Endpoints = map[string]int{"uploads": 1, "default": 100}
	cfg.Security.EnableCORS = true
	cfg.Ingestion.DefaultFormat = "csv"
	cfg.Playlist.Seed = 42
	return cfg
}

func newTestServer(t *testing.T, withDB bool) *Server {
	t.Helper()
	s := NewServer(testConfig())
	if withDB {
		s.SetDatabase(&database.DB{DB: testutil.NewDB(t)})
	}
	require.NoError(t, s.Initialize())
	t.Cleanup(func() {
		assert.NoError(t, s.Shutdown(context.Background()))
	})
	return s
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t, true)
	assert.Equal(t, "127.0.0.1:8181", s.Addr())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"version", http.MethodGet, "/api/v1/version", http.StatusOK},
		{"families", http.MethodGet, "/api/v1/families", http.StatusOK},
		{"videos", http.MethodGet, "/api/v1/videos", http.StatusOK},
		{"filters", http.MethodGet, "/api/v1/filters", http.StatusOK},
		{"runs", http.MethodGet, "/api/v1/uploads/runs", http.StatusOK},
		{"unknown", http.MethodGet, "/api/v1/channels", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apitest.Do(s.Engine(), tt.method, tt.path, nil, "")
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServerWithoutDatabase(t *testing.T) {
	s := newTestServer(t, false)

	w := apitest.Do(s.Engine(), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = apitest.Do(s.Engine(), http.MethodGet, "/api/v1/videos", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerUploadFlow(t *testing.T) {
	s := newTestServer(t, true)

	body, contentType := apitest.Multipart(t, "videos.csv", []byte(apitest.SampleCSV), map[string]string{
		"channel_id": "C1",
	})
	w := apitest.Do(s.Engine(), http.MethodPost, "/api/v1/uploads", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = apitest.Do(s.Engine(), http.MethodGet, "/api/v1/families/kirtan/playlist", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list types.PlaylistResponse
	apitest.Decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "v3", list.Entries[0].VideoID)

	// Exports default to csv from config
	w = apitest.Do(s.Engine(), http.MethodGet, "/api/v1/families/kirtan/playlist/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "kirtan_playlist.csv")
}

func TestServerRateLimitsUploads(t *testing.T) {
	s := newTestServer(t, true)

	// One per second with a burst of two
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := apitest.Do(s.Engine(), http.MethodPost, "/api/v1/uploads", nil, "")
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	w := apitest.Do(s.Engine(), http.MethodGet, "/api/v1/uploads/runs", nil, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "runs share the uploads group limit")

	// Other groups draw from the default bucket
	w = apitest.Do(s.Engine(), http.MethodGet, "/api/v1/videos", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
