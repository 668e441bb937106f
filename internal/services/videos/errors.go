package videos

import "errors"

var (
	// ErrVideoNotFound is returned when no stored video has the requested id.
	ErrVideoNotFound = errors.New("video not found")

	// ErrAmbiguousVideo is returned when an external id without a channel
	// matches videos in more than one channel.
	ErrAmbiguousVideo = errors.New("video id exists in more than one channel")
)
