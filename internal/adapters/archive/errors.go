package archive

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrOpenArchive  = errors.New("unable to open archive")
	ErrArchiveRead  = errors.New("unable to read archive")
	ErrArchiveWrite = errors.New("unable to write archive")
	ErrNotArchived  = errors.New("not archived")
)
