// Package apitest wires handler dependencies over an in-memory database
// for API tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/internal/app"
	"github.com/killallgit/playlist-api/internal/database"
	"github.com/killallgit/playlist-api/internal/sheets"
	"github.com/killallgit/playlist-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SampleCSV is an upload with one video per family partition of interest,
// a placeholder row and a row missing its title (line 6).
const SampleCSV = "Video Id,Video Title,Playlist Id,Playlist Name,Description,Privacy Status\n" +
	"v1,Morning Katha,PL1,Katha,\"Category: Katha\nOrator: Y\",public\n" +
	"v2,Dhun Collection,PL2,Dhun,\"Category: Dhun Jukebox\nOrator: X\nSabha Number: 2\",public\n" +
	"v3,Evening Kirtan,PL2,Dhun,\"Category: Kirtan\nSub Category: Streamed Kirtan\",public\n" +
	"v4,Private video,,,,private\n" +
	"v5,,,,,public\n"

// NewDeps returns dependencies backed by real services over a fresh
// database. The playlist seed is fixed so generated orders are stable.
func NewDeps(tb testing.TB) (*types.Dependencies, *gorm.DB) {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(tb)
	svc, err := app.New(db, app.Options{Seed: 42}, nil)
	require.NoError(tb, err)

	return &types.Dependencies{
		DB:               &database.DB{DB: db},
		IngestionService: svc.Ingestion,
		FilterService:    svc.Filters,
		DashboardService: svc.Dashboards,
		PlaylistService:  svc.Playlists,
		VideoService:     svc.Videos,
		DefaultFormat:    sheets.FormatCSV,
	}, db
}

// Do performs a request against h and returns the recorder.
func Do(h http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// JSON performs a request with v encoded as the body.
func JSON(tb testing.TB, h http.Handler, method, path string, v interface{}) *httptest.ResponseRecorder {
	tb.Helper()
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		require.NoError(tb, err)
		body = bytes.NewReader(b)
	}
	return Do(h, method, path, body, "application/json")
}

// Multipart builds a multipart body with one file part plus form fields.
func Multipart(tb testing.TB, filename string, content []byte, fields map[string]string) (io.Reader, string) {
	tb.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(tb, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(tb, err)
		_, err = fw.Write(content)
		require.NoError(tb, err)
	}
	require.NoError(tb, mw.Close())
	return &buf, mw.FormDataContentType()
}

// Decode unmarshals the recorder body into v.
func Decode(tb testing.TB, w *httptest.ResponseRecorder, v interface{}) {
	tb.Helper()
	require.NoError(tb, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
