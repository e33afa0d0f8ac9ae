package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/13rac1/ddsync/internal/archive"
	"github.com/13rac1/ddsync/internal/couchbase"
	"github.com/13rac1/ddsync/internal/ddoc"
	"github.com/13rac1/ddsync/internal/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tidwall/gjson"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func checkmark() string {
	return colorGreen + "✓" + colorReset
}

func crossmark() string {
	return colorRed + "✗" + colorReset
}

// Pinger checks that the Couchbase view endpoint is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BucketHeader checks access to the archive bucket.
type BucketHeader interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Checker runs the doctor checks against a loaded configuration.
type Checker struct {
	Config     *types.Config
	ConfigPath string
	// Couchbase is nil when no client could be created.
	Couchbase Pinger
	// Archive is nil when archiving is disabled or no S3 client could be created.
	Archive BucketHeader
	// ArchiveErr explains why Archive is nil when archiving is enabled.
	ArchiveErr error
}

// RunChecks performs all doctor checks and returns whether all passed.
func (c *Checker) RunChecks(ctx context.Context) bool {
	fmt.Println("ddsync doctor - Configuration and connectivity check")
	fmt.Println()

	allPassed := c.checkConfig()
	fmt.Println()

	if !c.checkDesignDocuments() {
		allPassed = false
	}
	fmt.Println()

	if !c.checkCouchbase(ctx) {
		allPassed = false
	}
	fmt.Println()

	if !c.checkArchive(ctx) {
		allPassed = false
	}
	fmt.Println()

	printSummary(allPassed)
	return allPassed
}

func (c *Checker) checkConfig() bool {
	cfg := c.Config
	passed := true

	fmt.Println("Configuration:")
	fmt.Printf("  %s Config file loaded: %s\n", checkmark(), c.ConfigPath)

	if cfg.Couchbase.Username == "YOUR-USERNAME" || cfg.Couchbase.Password == "YOUR-PASSWORD" {
		fmt.Printf("  %s Couchbase credentials not configured (still set to placeholder)\n", crossmark())
		fmt.Printf("    → Edit %s and set couchbase.username and couchbase.password\n", c.ConfigPath)
		passed = false
	} else {
		fmt.Printf("  %s Couchbase credentials configured for user: %s\n", checkmark(), cfg.Couchbase.Username)
	}

	if cfg.Bucket.Name == "" || cfg.Bucket.Name == "YOUR-BUCKET-NAME" {
		fmt.Printf("  %s Bucket not configured (still set to placeholder)\n", crossmark())
		fmt.Printf("    → Edit %s and set bucket.name, or pass --bucket\n", c.ConfigPath)
		passed = false
	} else {
		fmt.Printf("  %s Bucket configured: %s\n", checkmark(), cfg.Bucket.Name)
	}

	fmt.Printf("  %s Couchbase host: %s\n", checkmark(), cfg.Couchbase.DisplayHost())
	return passed
}

func (c *Checker) checkDesignDocuments() bool {
	fmt.Println("Design documents:")

	dir := ddoc.LookupDir(c.Config.Bucket.DesignDocsPath, c.Config.Bucket.Name)

	info, err := ddoc.StatLookupDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("  %s Lookup directory does not exist: %s\n", crossmark(), dir)
			fmt.Printf("    → Create the directory or update bucket.design_docs_path in config\n")
			return false
		}
		fmt.Printf("  %s Cannot access lookup directory: %s\n", crossmark(), dir)
		fmt.Printf("    → Error: %v\n", err)
		return false
	}

	if !info.IsDir() {
		fmt.Printf("  %s Lookup path is not a directory: %s\n", crossmark(), dir)
		fmt.Printf("    → Ensure bucket.design_docs_path points to a directory\n")
		return false
	}

	fmt.Printf("  %s Lookup directory exists: %s\n", checkmark(), dir)

	flat, err := ddoc.DiscoverFlat(dir)
	if err != nil {
		fmt.Printf("  %s Failed to read flat design documents: %v\n", crossmark(), err)
		return false
	}

	composite, err := ddoc.DiscoverComposite(dir)
	if err != nil {
		fmt.Printf("  %s Failed to assemble composite design documents: %v\n", crossmark(), err)
		return false
	}

	fmt.Printf("  %s Found %s and %s\n", checkmark(),
		plural(len(flat), "flat document", "flat documents"),
		plural(len(composite), "composite document", "composite documents"))

	passed := true
	for _, doc := range append(flat, composite...) {
		if !gjson.Valid(couchbase.WireBody(doc.Body)) {
			fmt.Printf("  %s %s design document %s is not valid JSON\n", crossmark(), doc.Kind, doc.Name)
			fmt.Printf("    → Check %s\n", doc.Origin)
			passed = false
		}
	}

	return passed
}

func (c *Checker) checkCouchbase(ctx context.Context) bool {
	fmt.Println("Couchbase:")

	if c.Couchbase == nil {
		fmt.Printf("  %s No client for %s\n", crossmark(), c.Config.Couchbase.DisplayHost())
		return false
	}

	if err := c.Couchbase.Ping(ctx); err != nil {
		fmt.Printf("  %s View endpoint unreachable: %s\n", crossmark(), c.Config.Couchbase.DisplayHost())
		fmt.Printf("    → Error: %v\n", err)
		return false
	}

	fmt.Printf("  %s View endpoint reachable: %s\n", checkmark(), c.Config.Couchbase.DisplayHost())
	return true
}

func (c *Checker) checkArchive(ctx context.Context) bool {
	fmt.Println("Archive:")

	cfg := c.Config
	if !cfg.ArchiveEnabled() {
		fmt.Printf("  %s Archive disabled (archive.bucket not set)\n", checkmark())
		return true
	}

	if c.Archive == nil {
		fmt.Printf("  %s Cannot create S3 client for bucket %s\n", crossmark(), cfg.Archive.Bucket)
		if c.ArchiveErr != nil {
			fmt.Printf("    → Error: %v\n", c.ArchiveErr)
		}
		return false
	}

	if err := archive.CheckBucket(ctx, c.Archive, cfg.Archive.Bucket); err != nil {
		fmt.Printf("  %s Archive bucket not accessible: %s\n", crossmark(), cfg.Archive.Bucket)
		fmt.Printf("    → Error: %v\n", err)
		return false
	}

	fmt.Printf("  %s Archive bucket accessible: %s (prefix %s)\n", checkmark(), cfg.Archive.Bucket, cfg.Archive.Prefix)
	return true
}

func printSummary(allPassed bool) {
	if allPassed {
		fmt.Println("All checks passed! Ready to use ddsync.")
	} else {
		fmt.Println("Some checks failed. Please fix the issues above.")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
