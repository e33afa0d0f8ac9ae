package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the S3 surface the Archiver needs.
type Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Archiver uploads pushed design documents and records them in the manifest.
type Archiver struct {
	client   Client
	uploader *manager.Uploader
	s3Bucket string
	prefix   string
	now      func() time.Time

	pushed map[string]map[string]Entry // couchbase bucket -> name -> entry
}

// New creates an Archiver writing to s3Bucket under prefix.
func New(client Client, s3Bucket, prefix string) *Archiver {
	return &Archiver{
		client:   client,
		uploader: manager.NewUploader(client),
		s3Bucket: s3Bucket,
		prefix:   prefix,
		now:      func() time.Time { return time.Now().UTC() },
		pushed:   make(map[string]map[string]Entry),
	}
}

// Record uploads the wire body of a pushed document.
func (a *Archiver) Record(ctx context.Context, bucket, name, kind, body string) error {
	key := DocumentKey(a.prefix, bucket, name)
	sum := sha256.Sum256([]byte(body))

	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.s3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(body)),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archiving %s: %w", name, err)
	}

	if a.pushed[bucket] == nil {
		a.pushed[bucket] = make(map[string]Entry)
	}
	a.pushed[bucket][name] = Entry{
		Kind:     kind,
		Key:      key,
		SHA256:   hex.EncodeToString(sum[:]),
		Size:     int64(len(body)),
		PushedAt: a.now(),
	}
	return nil
}

// Flush merges the documents recorded for bucket into its manifest.
// It is a no-op when nothing was recorded.
func (a *Archiver) Flush(ctx context.Context, bucket string) error {
	entries := a.pushed[bucket]
	if len(entries) == 0 {
		return nil
	}

	key := ManifestKey(a.prefix, bucket)
	m, err := LoadManifest(ctx, a.client, a.s3Bucket, key, bucket)
	if err != nil {
		return err
	}

	for name, entry := range entries {
		m.Documents[name] = entry
	}
	m.UpdatedAt = a.now()

	if err := SaveManifest(ctx, a.client, a.s3Bucket, key, m); err != nil {
		return err
	}

	delete(a.pushed, bucket)
	return nil
}
