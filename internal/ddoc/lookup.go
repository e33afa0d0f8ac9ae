package ddoc

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// BucketNamePlaceholder is replaced with the bucket name in a lookup path template.
const BucketNamePlaceholder = "${bucketName}"

// LookupDir resolves the directory scanned for a bucket's design documents.
// Every occurrence of BucketNamePlaceholder in template is replaced.
func LookupDir(template, bucketName string) string {
	return strings.ReplaceAll(template, BucketNamePlaceholder, bucketName)
}

// StatLookupDir describes the lookup directory as discovery sees it.
func StatLookupDir(dir string) (os.FileInfo, error) {
	return fs.Stat(dir)
}

// readLookupDir lists the lookup directory. A missing directory is empty.
func readLookupDir(dir string) ([]os.FileInfo, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("accessing lookup directory %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("lookup path is not a directory: %s", dir)
	}

	entries, err := readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading lookup directory %s: %w", dir, err)
	}
	return entries, nil
}
