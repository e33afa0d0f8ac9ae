package archive

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// bucketHeader defines the minimal S3 client interface needed for checking bucket access.
type bucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// CheckBucket verifies the archive bucket exists and is accessible.
func CheckBucket(ctx context.Context, client bucketHeader, s3Bucket string) error {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s3Bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", s3Bucket, err)
	}
	return nil
}
