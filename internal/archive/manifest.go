// Package archive keeps a copy of every design document pushed to Couchbase in
// S3-compatible storage, with a manifest describing the latest push of each.
// The archive is a record only; it never decides whether a document is sent.
package archive

import (
	"strings"
	"time"
)

// manifestVersion is the only manifest format this package reads.
const manifestVersion = 1

// Manifest records the latest push of each design document in a bucket.
type Manifest struct {
	Version   int              `json:"version"`
	Bucket    string           `json:"bucket"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Documents map[string]Entry `json:"documents"`
}

// Entry describes one archived design document.
type Entry struct {
	Kind     string    `json:"kind"`
	Key      string    `json:"key"`
	SHA256   string    `json:"sha256"`
	Size     int64     `json:"size"`
	PushedAt time.Time `json:"pushedAt"`
}

// NewManifest creates an empty manifest for a Couchbase bucket.
func NewManifest(bucket string) *Manifest {
	return &Manifest{
		Version:   manifestVersion,
		Bucket:    bucket,
		Documents: make(map[string]Entry),
	}
}

// BucketPrefix returns the key prefix holding a Couchbase bucket's archive.
// prefix is normalized to end with a slash when non-empty.
func BucketPrefix(prefix, bucket string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + bucket + "/"
}

// DocumentsPrefix returns the key prefix holding a bucket's archived documents.
// Documents live one level below the manifest so no document name can collide with it.
func DocumentsPrefix(prefix, bucket string) string {
	return BucketPrefix(prefix, bucket) + "docs/"
}

// DocumentKey returns the object key of an archived design document.
func DocumentKey(prefix, bucket, name string) string {
	return DocumentsPrefix(prefix, bucket) + name + ".json"
}

// ManifestKey returns the object key of a bucket's manifest.
func ManifestKey(prefix, bucket string) string {
	return BucketPrefix(prefix, bucket) + ".manifest.json"
}
