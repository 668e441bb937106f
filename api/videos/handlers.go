package videos

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
	videosvc "github.com/killallgit/playlist-api/internal/services/videos"
)

// List returns one page of stored videos with their type, category,
// playlist and detail.
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, ok := types.ParsePaging(c)
		if !ok {
			return
		}

		result, err := deps.VideoService.List(c.Request.Context(), page, limit)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.VideosResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Videos:       result.Videos,
			Count:        len(result.Videos),
			Total:        result.Total,
			Page:         result.Page,
			Limit:        result.Limit,
		})
	}
}

// Get returns one video by its external id. The channel_id query
// parameter picks one when the id exists in several channels.
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		video, err := deps.VideoService.Get(c.Request.Context(), c.Param("videoId"), c.Query("channel_id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.VideoResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Video:        video,
		})
	}
}

// Update edits a video's title, channel or active flag. Like Get it takes
// an optional channel_id query parameter. Dashboards and
// playlists are rebuilt before the response is sent.
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.UpdateVideoRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		if req.Title == nil && req.ChannelID == nil && req.IsActive == nil {
			types.SendBadRequest(c, "Nothing to update")
			return
		}

		video, err := deps.VideoService.Update(c.Request.Context(), c.Param("videoId"), c.Query("channel_id"), videosvc.UpdateVideoRequest{
			Title:     req.Title,
			ChannelID: req.ChannelID,
			IsActive:  req.IsActive,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.VideoResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Video updated"},
			Video:        video,
		})
	}
}
