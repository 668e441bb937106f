package uploads

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/internal/services/ingestion"
	"github.com/killallgit/playlist-api/internal/sheets"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
)

const defaultRunLimit = 20

// Upload ingests a spreadsheet for one channel. The form carries the file
// under "file" and the channel under "channel_id"; "format" overrides the
// format inferred from the file name. Stored filters decide which videos
// stay active.
func Upload(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		channelID := strings.TrimSpace(c.PostForm("channel_id"))
		header, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Upload exceeds the size limit",
					Error:   string(apperrors.ErrCodeValidation),
					Details: gin.H{"limit_bytes": tooLarge.Limit},
				})
				return
			}
			types.SendError(c, apperrors.MissingFieldError("file"))
			return
		}
		if channelID == "" {
			types.SendError(c, apperrors.MissingFieldError("channel_id"))
			return
		}

		format := sheets.FormatFromFilename(header.Filename, deps.Format())
		if f := c.PostForm("format"); f != "" {
			if format, err = sheets.ParseFormat(f); err != nil {
				types.SendError(c, err)
				return
			}
		}

		file, err := header.Open()
		if err != nil {
			types.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "unreadable upload"))
			return
		}
		defer file.Close()

		records, err := sheets.ReadRecords(file, format)
		if err != nil {
			types.SendError(c, err)
			return
		}

		result, err := deps.IngestionService.Ingest(c.Request.Context(), ingestion.Batch{
			ChannelID: channelID,
			Source:    header.Filename,
			Records:   records,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		resp := types.UploadResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Batch ingested"},
			Result:       result,
		}
		if len(result.Errors) > 0 {
			resp.Status = types.StatusPartial
			resp.Message = "Batch ingested with row errors"
		}
		types.SendSuccess(c, resp)
	}
}

// ListRuns returns recent ingestion runs, newest first
func ListRuns(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultRunLimit
		if s := c.Query("limit"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 1 || v > types.MaxPageLimit {
				types.SendBadRequest(c, "limit must be a positive integer")
				return
			}
			limit = v
		}

		runs, err := deps.IngestionService.ListRuns(c.Request.Context(), limit)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.RunsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Runs:         runs,
			Count:        len(runs),
		})
	}
}

// GetRun returns one ingestion run by its run id
func GetRun(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := deps.IngestionService.GetRun(c.Request.Context(), c.Param("runId"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.RunResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Run:          run,
		})
	}
}
