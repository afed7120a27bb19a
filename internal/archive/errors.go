package archive

import "errors"

var (
	// ErrBadArchive indicates the file is not a readable ZIP archive.
	ErrBadArchive = errors.New("not a valid zip archive")

	// ErrEncrypted indicates the archive has password-protected entries.
	ErrEncrypted = errors.New("archive is password protected")

	// ErrEmptyArchive indicates the archive contains no extractable files.
	ErrEmptyArchive = errors.New("archive contains no files")

	// ErrPathTraversal indicates an entry name escapes the extraction
	// directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
