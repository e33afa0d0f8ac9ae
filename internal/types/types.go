// Package types defines the core data structures used throughout ddsync.
// This includes configuration structs shared by the config, sync and doctor packages.
package types

import (
	"net/url"
	"time"
)

// Config represents the complete configuration for ddsync.
type Config struct {
	Couchbase   CouchbaseConfig `yaml:"couchbase"`
	Bucket      BucketConfig    `yaml:"bucket"`
	FailOnError *bool           `yaml:"fail_on_error"`
	Archive     ArchiveConfig   `yaml:"archive"`
	Auth        AuthConfig      `yaml:"auth"`
}

// CouchbaseConfig holds connection settings for the view REST endpoint.
type CouchbaseConfig struct {
	Host     string        `yaml:"host"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DisplayHost returns Host with any password in its userinfo masked,
// suitable for printing.
func (c CouchbaseConfig) DisplayHost() string {
	u, err := url.Parse(c.Host)
	if err != nil {
		return "(invalid host)"
	}
	return u.Redacted()
}

// BucketConfig selects the bucket and where its design documents live locally.
type BucketConfig struct {
	Name string `yaml:"name"`
	// DesignDocsPath may contain the ${bucketName} placeholder.
	DesignDocsPath string `yaml:"design_docs_path"`
}

// ArchiveConfig holds S3-compatible storage settings for archiving pushed documents.
// Archiving is disabled when Bucket is empty.
type ArchiveConfig struct {
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

// AuthConfig holds AWS credentials for the archive.
type AuthConfig struct {
	Profile         string `yaml:"profile"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// ShouldFailOnError reports whether a rejected document should fail the process.
// Defaults to true when unset.
func (c *Config) ShouldFailOnError() bool {
	if c.FailOnError == nil {
		return true
	}
	return *c.FailOnError
}

// ArchiveEnabled reports whether pushed documents are archived to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Bucket != ""
}
