package ingestion

import "errors"

// ErrRunNotFound is returned when no ingestion run has the requested id.
var ErrRunNotFound = errors.New("ingestion run not found")
