package split

import "errors"

var (
	// ErrOutputExists is returned when a chunk path is already taken
	// and overwriting was not requested.
	ErrOutputExists = errors.New("output file already exists")
	// ErrOutputDirMissing is returned when the output directory does
	// not exist and creating it was not requested.
	ErrOutputDirMissing = errors.New("output directory does not exist")
	// ErrInvalidMode is returned for a mode with no positive chunk
	// size or file count, or with both set.
	ErrInvalidMode = errors.New("exactly one of chunk size or file count must be set")
)

// FileError ties a failure to the input file that caused it. A batch
// run keeps going after a FileError.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }
