package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUploadTooLarge is returned for files above the upload size limit.
	ErrUploadTooLarge = errors.New("tui: file is too large")
	// ErrUploadType is returned for files with a disallowed extension.
	ErrUploadType = errors.New("tui: file type not allowed")
)
