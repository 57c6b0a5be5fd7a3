package core

import "errors"

// Error kinds surfaced by a conversion. All of them are fatal to the
// conversion in progress; stage errors wrap one of these plus the cause.
var (
	// ErrUpstreamFetch marks a failed document export or structure read.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrImageDownload marks a non-success response, empty body, or
	// transport error while downloading an image.
	ErrImageDownload = errors.New("image download failed")

	// ErrFilesystem marks a directory or file creation/write failure.
	ErrFilesystem = errors.New("filesystem operation failed")
)
