package ddoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// LoadSource returns the full text content of the file at path.
// Internal line breaks are preserved; a single trailing line terminator is dropped.
func LoadSource(path string) (string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", SourceNotFoundError{Path: path}
		}
		return "", fmt.Errorf("accessing %s: %w", path, err)
	}
	if info.IsDir() {
		return "", SourceNotFoundError{Path: path}
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", SourceNotFoundError{Path: path}
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return trimFinalNewline(string(data)), nil
}

func trimFinalNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	if strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\r") {
		return s[:len(s)-1]
	}
	return s
}
