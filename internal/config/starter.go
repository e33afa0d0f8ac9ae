package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const starterConfig = `# ddsync configuration
#
# Design documents for a bucket are read from design_docs_path, where
# ${bucketName} is replaced with bucket.name. The directory holds:
#   <name>.ddoc          a complete design document body (JSON)
#   <name>/<view>.js     a view map function
#   <name>/<view>.reduce an optional reduce function for <view>

couchbase:
  host: http://localhost:8092
  username: YOUR-USERNAME
  password: YOUR-PASSWORD
  # timeout: 30s

bucket:
  name: YOUR-BUCKET-NAME
  design_docs_path: ./src/main/resources/couchbase/${bucketName}/

# Abort with a non-zero exit code when the server rejects a document.
fail_on_error: true

# Optional: archive every pushed document to S3-compatible storage.
# archive:
#   bucket: my-archive-bucket
#   prefix: ddsync/
#   region: us-east-1
#   endpoint: https://s3.us-west-002.backblazeb2.com
#   force_path_style: false
#
# auth:
#   profile: default
`

// CreateStarterConfig writes a commented starter config to path.
// Parent directories are created as needed. An existing file is never overwritten.
func CreateStarterConfig(path string) error {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(expandedPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", expandedPath, err)
	}

	if _, err := f.WriteString(starterConfig); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config file %s: %w", expandedPath, err)
	}

	return f.Close()
}
