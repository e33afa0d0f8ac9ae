package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/13rac1/ddsync/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost           = "http://localhost:8092"
	defaultDesignDocsPath = "./src/main/resources/couchbase/${bucketName}/"
	defaultTimeout        = 30 * time.Second
	defaultArchivePrefix  = "ddsync/"

	envUsername = "DDSYNC_USERNAME"
	envPassword = "DDSYNC_PASSWORD"
)

// Overrides are values supplied on the command line. They win over the file
// and the environment and are applied before validation.
type Overrides struct {
	Bucket      string
	FailOnError *bool
	// Offline skips the Couchbase credential checks for commands that never
	// contact the server, such as list and a dry run.
	Offline bool
}

// Load reads and validates configuration from the specified path.
// Tilde (~) in paths is expanded to the user's home directory.
// DDSYNC_USERNAME and DDSYNC_PASSWORD override the file's credentials.
func Load(path string) (*types.Config, error) {
	return LoadWithOverrides(path, Overrides{})
}

// LoadWithOverrides is Load with command-line overrides applied before validation.
func LoadWithOverrides(path string, o Overrides) (*types.Config, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
	}

	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyEnv(&cfg)

	if o.Bucket != "" {
		cfg.Bucket.Name = o.Bucket
	}
	if o.FailOnError != nil {
		cfg.FailOnError = o.FailOnError
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	validate := Validate
	if o.Offline {
		validate = ValidateOffline
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides credentials from the environment so they can stay out of the file.
func applyEnv(cfg *types.Config) {
	if v := os.Getenv(envUsername); v != "" {
		cfg.Couchbase.Username = v
	}
	if v := os.Getenv(envPassword); v != "" {
		cfg.Couchbase.Password = v
	}
}

// applyDefaults sets default values for optional config fields.
func applyDefaults(cfg *types.Config) error {
	if cfg.Couchbase.Host == "" {
		cfg.Couchbase.Host = defaultHost
	}
	cfg.Couchbase.Host = strings.TrimRight(cfg.Couchbase.Host, "/")

	if cfg.Couchbase.Timeout <= 0 {
		cfg.Couchbase.Timeout = defaultTimeout
	}

	if cfg.Bucket.DesignDocsPath == "" {
		cfg.Bucket.DesignDocsPath = defaultDesignDocsPath
	}

	expanded, err := expandTilde(cfg.Bucket.DesignDocsPath)
	if err != nil {
		return fmt.Errorf("expanding design_docs_path: %w", err)
	}
	cfg.Bucket.DesignDocsPath = expanded

	if cfg.Archive.Prefix == "" {
		cfg.Archive.Prefix = defaultArchivePrefix
	}

	// Ensure prefix has trailing slash for consistent key building
	if !strings.HasSuffix(cfg.Archive.Prefix, "/") {
		cfg.Archive.Prefix = cfg.Archive.Prefix + "/"
	}

	return nil
}

// Validate ensures required config fields are present and valid.
func Validate(cfg *types.Config) error {
	if cfg.Couchbase.Username == "" {
		return fmt.Errorf("couchbase.username is required")
	}

	if cfg.Couchbase.Password == "" {
		return fmt.Errorf("couchbase.password is required")
	}

	return ValidateOffline(cfg)
}

// ValidateOffline is Validate without the credential checks.
func ValidateOffline(cfg *types.Config) error {
	u, err := url.Parse(cfg.Couchbase.Host)
	if err != nil {
		return fmt.Errorf("couchbase.host is not a valid URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("couchbase.host must be an absolute URL, got %q", cfg.Couchbase.Host)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("couchbase.host scheme must be http or https, got %q", u.Scheme)
	}

	if cfg.Bucket.Name == "" {
		return fmt.Errorf("bucket.name is required")
	}

	if strings.ContainsAny(cfg.Bucket.Name, "/\\") {
		return fmt.Errorf("bucket.name must not contain path separators: %q", cfg.Bucket.Name)
	}

	if cfg.Archive.Bucket != "" && cfg.Archive.Region == "" {
		return fmt.Errorf("archive.region is required when archive.bucket is set")
	}

	return nil
}

// expandTilde replaces ~ at the start of a path with the user's home directory.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}
