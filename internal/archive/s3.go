package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ManifestClient defines the minimal S3 client interface needed for manifest operations.
type ManifestClient interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// LoadManifest downloads and parses a bucket's manifest.
// Returns an empty manifest if none exists yet.
func LoadManifest(ctx context.Context, client ManifestClient, s3Bucket, key, bucket string) (*Manifest, error) {
	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return NewManifest(bucket), nil
		}
		return nil, fmt.Errorf("downloading manifest: %w", err)
	}
	defer func() { _ = output.Body.Close() }()

	var m Manifest
	if err := json.NewDecoder(output.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing manifest JSON: %w", err)
	}

	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version: %d", m.Version)
	}

	if m.Documents == nil {
		m.Documents = make(map[string]Entry)
	}
	if m.Bucket == "" {
		m.Bucket = bucket
	}

	return &m, nil
}

// SaveManifest uploads the manifest as JSON.
func SaveManifest(ctx context.Context, client ManifestClient, s3Bucket, key string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading manifest: %w", err)
	}

	return nil
}

// isNotFound reports whether err means the object does not exist.
// Some S3-compatible providers only surface the error code.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	return false
}
