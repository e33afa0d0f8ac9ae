package ddoc

import (
	"fmt"
	"os"
)

// SourceNotFoundError is returned when a design document or view file
// cannot be read because it does not exist.
type SourceNotFoundError struct {
	Path string
}

func (err SourceNotFoundError) Error() string {
	return fmt.Sprintf("design document source %q does not exist", err.Path)
}

// Unwrap lets errors.Is(err, os.ErrNotExist) match.
func (err SourceNotFoundError) Unwrap() error {
	return os.ErrNotExist
}
