package families

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/internal/sheets"
)

// List returns every enabled family with its current subset and
// partition sizes.
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		families := deps.DashboardService.Registry().Families()
		resp := types.FamiliesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
		}
		for _, f := range families {
			summary, err := deps.DashboardService.Summary(c.Request.Context(), f.Keyword)
			if err != nil {
				types.SendError(c, err)
				return
			}
			resp.Families = append(resp.Families, summary)
		}
		types.SendSuccess(c, resp)
	}
}

// Dashboard returns one page of a family subset, ordered by title
func Dashboard(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, ok := types.ParsePaging(c)
		if !ok {
			return
		}
		result, err := deps.DashboardService.ListDashboard(c.Request.Context(), c.Param("family"), page, limit)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.DashboardResponse{
			BaseResponse:  types.BaseResponse{Status: types.StatusOK},
			DashboardPage: result,
		})
	}
}

// ExportDashboard downloads a whole family subset
func ExportDashboard(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.DashboardService.ListDashboard(c.Request.Context(), c.Param("family"), 1, -1)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendTable(c, result.Family+"_dashboard", deps.Format(), sheets.DashboardTable(result.Entries))
	}
}

// Partition returns one page of a family partition
func Partition(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, ok := types.ParsePaging(c)
		if !ok {
			return
		}
		result, err := deps.DashboardService.ListPartition(c.Request.Context(), c.Param("family"), c.Param("partition"), page, limit)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.PartitionResponse{
			BaseResponse:  types.BaseResponse{Status: types.StatusOK},
			PartitionPage: result,
		})
	}
}

// ExportPartition downloads a whole partition
func ExportPartition(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.DashboardService.ListPartition(c.Request.Context(), c.Param("family"), c.Param("partition"), 1, -1)
		if err != nil {
			types.SendError(c, err)
			return
		}
		name := result.Family + "_" + result.Partition
		types.SendTable(c, name, deps.Format(), sheets.PartitionTable(result.Entries))
	}
}

// Refresh rebuilds the family's dashboard and playlist
func Refresh(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := deps.IngestionService.Refresh(c.Request.Context(), c.Param("family"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.RefreshResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Refresh:      summary,
		})
	}
}

// Playlist returns the family's generated playlist in order
func Playlist(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		family := c.Param("family")
		entries, err := deps.PlaylistService.ListPlaylist(c.Request.Context(), family)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.PlaylistResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Family:       family,
			Entries:      entries,
			Count:        len(entries),
		})
	}
}

// GeneratePlaylist reshuffles the family's playlist from its current
// partitions.
func GeneratePlaylist(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.PlaylistService.GeneratePlaylist(c.Request.Context(), c.Param("family"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		c.JSON(http.StatusCreated, types.GenerateResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Playlist generated"},
			Result:       result,
		})
	}
}

// ExportPlaylist downloads the family's playlist
func ExportPlaylist(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		family := c.Param("family")
		entries, err := deps.PlaylistService.ListPlaylist(c.Request.Context(), family)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendTable(c, family+"_playlist", deps.Format(), sheets.PlaylistTable(entries))
	}
}
