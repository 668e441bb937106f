package types

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/playlist-api/internal/sheets"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// Default and maximum page sizes for list endpoints
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 1000
)

// ParseUintParam extracts and parses a URL parameter as uint
// Returns the parsed value and sends error response if parsing fails
func ParseUintParam(c *gin.Context, paramName string) (uint, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.ParseUint(paramStr, 10, 32)
	if err != nil {
		SendBadRequest(c, "Invalid "+paramName)
		return 0, false
	}
	return uint(value), true
}

// ParsePaging reads the page and limit query parameters. limit=-1 asks
// for every row.
func ParsePaging(c *gin.Context) (page, limit int, ok bool) {
	page, limit = 1, DefaultPageLimit

	if s := c.Query("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			SendBadRequest(c, "page must be a positive integer")
			return 0, 0, false
		}
		page = v
	}
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v == 0 || v < -1 || v > MaxPageLimit {
			SendBadRequest(c, fmt.Sprintf("limit must be between 1 and %d, or -1", MaxPageLimit))
			return 0, 0, false
		}
		limit = v
	}
	return page, limit, true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Error:   string(apperrors.ErrCodeValidation),
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendError maps err to a status code through its error code and writes
// an ErrorResponse. Unclassified errors become 500s without leaking the
// cause.
func SendError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.GetHTTPCode(err)

	resp := ErrorResponse{Status: StatusError, Error: string(code), Message: "Internal server error"}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		if len(appErr.Details) > 0 {
			resp.Details = appErr.Details
		}
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, resp)
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Status:  StatusError,
		Message: message,
		Error:   string(apperrors.ErrCodeValidation),
	})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Status:  StatusError,
		Message: message,
		Error:   string(apperrors.ErrCodeNotFound),
	})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendTable writes t as a downloadable file named name.<format>. The
// format comes from the "format" query parameter or def. An empty table
// is a 404.
func SendTable(c *gin.Context, name string, def sheets.Format, t sheets.Table) {
	format := def
	if q := c.Query("format"); q != "" {
		f, err := sheets.ParseFormat(q)
		if err != nil {
			SendError(c, err)
			return
		}
		format = f
	}
	if len(t.Rows) == 0 {
		SendError(c, apperrors.NotFound("export data", name))
		return
	}

	var buf bytes.Buffer
	if err := sheets.Write(&buf, format, t); err != nil {
		SendError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to render export"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Chain returns middleware followed by h in a fresh slice.
func Chain(middleware []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, h)
}
