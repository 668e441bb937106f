package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", ValidationError("title", "empty"), http.StatusBadRequest},
		{"missing field", MissingFieldError("channel_id"), http.StatusBadRequest},
		{"not found", NotFound("video", "abc"), http.StatusNotFound},
		{"integrity", IntegrityError("detail", "video missing"), http.StatusConflict},
		{"transaction", TransactionError("purge", fmt.Errorf("boom")), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPCode(tt.err))
		})
	}
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("ingest: %w", NotFound("family", "bhajan"))

	assert.True(t, Is(err, ErrCodeNotFound))
	assert.False(t, Is(err, ErrCodeTransaction))
	assert.Equal(t, ErrCodeNotFound, GetCode(err))
}

func TestTransactionErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := TransactionError("insert video", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert video")
	assert.Equal(t, "insert video", err.Details["operation"])
}

func TestIsRowLevel(t *testing.T) {
	assert.True(t, IsRowLevel(ValidationError("kind", "unknown")))
	assert.True(t, IsRowLevel(IntegrityError("playlist entry", "no video")))
	assert.False(t, IsRowLevel(TransactionError("commit", fmt.Errorf("x"))))
	assert.False(t, IsRowLevel(fmt.Errorf("plain")))
}
