package filters

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/api/types"
	"github.com/killallgit/playlist-api/internal/models"
	"github.com/killallgit/playlist-api/internal/sheets"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
)

// List returns every stored filter
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.FilterService.ListFilters(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.FiltersResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Filters:      list,
			Count:        len(list),
		})
	}
}

// Get returns one filter
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		f, err := deps.FilterService.GetFilter(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.FilterResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Filter:       f,
		})
	}
}

// Create stores a new filter. It does not reapply filters to stored
// videos; call apply for that.
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.FilterRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		f, err := deps.FilterService.CreateFilter(c.Request.Context(), req.Kind, req.Value, req.MatchedTitle)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.FilterResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Filter created"},
			Filter:       f,
		})
	}
}

// Delete removes a filter
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		if err := deps.FilterService.DeleteFilter(c.Request.Context(), id); err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Filter deleted"})
	}
}

// Import stores filters from an uploaded sheet. Rows missing a type or
// value are skipped and reported.
func Import(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			types.SendError(c, apperrors.MissingFieldError("file"))
			return
		}
		format := sheets.FormatFromFilename(header.Filename, deps.Format())

		file, err := header.Open()
		if err != nil {
			types.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "unreadable upload"))
			return
		}
		defer file.Close()

		rows, err := sheets.ReadFilterRows(file, format)
		if err != nil {
			types.SendError(c, err)
			return
		}

		result, err := deps.FilterService.ImportFilters(c.Request.Context(), rows)
		if err != nil {
			types.SendError(c, err)
			return
		}
		status := types.StatusOK
		if result.Skipped > 0 {
			status = types.StatusPartial
		}
		types.SendSuccess(c, types.ImportResponse{
			BaseResponse: types.BaseResponse{Status: status},
			Result:       result,
		})
	}
}

// Export downloads the stored filters
func Export(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := deps.FilterService.ListFilters(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendTable(c, "filters", deps.Format(), sheets.FiltersTable(list))
	}
}

// Apply reconciles every stored video's active flag. Without a body the
// stored filters are applied; a "filters" list applies exactly that set.
func Apply(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var set []models.VideoFilter
		if c.Request.ContentLength != 0 {
			var req types.ApplyFiltersRequest
			if !types.BindJSONOrError(c, &req) {
				return
			}
			if req.Filters != nil {
				set = make([]models.VideoFilter, 0, len(req.Filters))
				for _, f := range req.Filters {
					set = append(set, models.VideoFilter{Kind: f.Kind, Value: f.Value, MatchedTitle: f.MatchedTitle})
				}
			}
		}

		result, err := deps.FilterService.ApplyFilters(c.Request.Context(), set)
		if err != nil {
			types.SendError(c, err)
			return
		}
		status := types.StatusOK
		if len(result.Errors) > 0 {
			status = types.StatusPartial
		}
		types.SendSuccess(c, types.ApplyResponse{
			BaseResponse: types.BaseResponse{Status: status},
			Result:       result,
		})
	}
}

// Preview lists the stored videos a proposed filter would exclude
func Preview(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.FilterRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		matched, err := deps.FilterService.Preview(c.Request.Context(), req.Kind, req.Value)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.PreviewResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Videos:       matched,
			Count:        len(matched),
		})
	}
}
