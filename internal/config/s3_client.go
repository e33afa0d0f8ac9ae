package config

import (
	"context"
	"fmt"

	"github.com/13rac1/ddsync/internal/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// archiveRetryAttempts bounds retries of archive uploads. The archive is
// best effort, so a slow store must not hold up a sync for long.
const archiveRetryAttempts = 3

// NewS3Client creates the client for the design document archive.
func NewS3Client(ctx context.Context, archive types.ArchiveConfig, auth types.AuthConfig) (*s3.Client, error) {
	if archive.Bucket == "" {
		return nil, fmt.Errorf("archive.bucket is not configured")
	}

	awsCfg, err := loadAWSConfig(ctx, archive.Region, auth)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, archiveEndpoint(archive)), nil
}

// loadAWSConfig resolves region and credentials. Static keys win over a
// named profile, which wins over the default credential chain.
func loadAWSConfig(ctx context.Context, region string, auth types.AuthConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryMaxAttempts(archiveRetryAttempts),
		config.WithRetryMode(aws.RetryModeStandard),
	}

	switch {
	case auth.AccessKeyID != "":
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(auth.AccessKeyID, auth.SecretAccessKey, auth.SessionToken),
		))
	case auth.Profile != "":
		opts = append(opts, config.WithSharedConfigProfile(auth.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return awsCfg, nil
}

// archiveEndpoint points the client at an S3-compatible store when one is configured.
func archiveEndpoint(archive types.ArchiveConfig) func(*s3.Options) {
	return func(o *s3.Options) {
		if archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(archive.Endpoint)
		}
		o.UsePathStyle = archive.ForcePathStyle
	}
}
