package processor

import "errors"

var (
	// ErrUploadFailed indicates the destination rejected or lost a file.
	ErrUploadFailed = errors.New("upload failed")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrNoFiles indicates an empty batch was submitted.
	ErrNoFiles = errors.New("no files to process")
)
