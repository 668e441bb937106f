package filters

import (
	"errors"

	"github.com/killallgit/playlist-api/internal/models"
	apperrors "github.com/killallgit/playlist-api/pkg/errors"
)

// ErrFilterNotFound is returned by the repository when no filter matches.
var ErrFilterNotFound = errors.New("filter not found")

// rowError converts a row-level error into its recorded form.
func rowError(row int, videoID string, err error) models.RowError {
	return models.RowError{
		Row:     row,
		VideoID: videoID,
		Code:    string(apperrors.GetCode(err)),
		Message: err.Error(),
	}
}
