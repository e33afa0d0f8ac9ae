package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/13rac1/ddsync/internal/archive"
	"github.com/13rac1/ddsync/internal/config"
	"github.com/13rac1/ddsync/internal/couchbase"
	"github.com/13rac1/ddsync/internal/ddoc"
	"github.com/13rac1/ddsync/internal/doctor"
	"github.com/13rac1/ddsync/internal/output"
	"github.com/13rac1/ddsync/internal/syncer"
	"github.com/13rac1/ddsync/internal/types"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath        string
	defaultConfigPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ddsync",
	Short:   "Couchbase design document sync - push view definitions from disk",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Long: `ddsync reads Couchbase view design documents for a bucket from a local
directory and pushes every one of them to the server's view REST endpoint.

A directory holds <name>.ddoc files (complete documents) and <name>/
directories of <view>.js map functions with optional <view>.reduce files.
Documents whose name starts with dev_ are pushed before the others.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug, trace)
	},
}

var (
	bucketName  string
	jsonOutput  bool
	dryRun      bool
	failOnError bool
	debug       bool
	trace       bool
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Push every design document of the bucket to Couchbase",
	Long: `Discovers the flat (.ddoc) and composite (directory) design documents of
the configured bucket and PUTs each one to the view endpoint, flat documents
first. Every document is sent on every run. The first rejected document stops
the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(overridesFor(cmd, dryRun))
		if err != nil {
			return err
		}
		return runEnsure(cmd.Context(), cfg)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the design documents that would be pushed",
	Long: `Lists the design documents found for the bucket in send order, with
their kind, view count and origin on disk. Nothing is sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(overridesFor(cmd, true))
		if err != nil {
			return err
		}

		dir := ddoc.LookupDir(cfg.Bucket.DesignDocsPath, cfg.Bucket.Name)
		docs, err := discoverAll(dir)
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := output.PrintJSON(docs, dir, cfg); err != nil {
				return fmt.Errorf("printing JSON output: %w", err)
			}
			return nil
		}
		output.PrintDocuments(cfg.Bucket.Name, docs)
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate configuration and connectivity",
	Long: `Checks that the configuration is valid, the design document directory
exists and every document in it is valid JSON, the Couchbase view endpoint is
reachable, and the archive bucket (when configured) is accessible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(overridesFor(cmd, false))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		checker := &doctor.Checker{
			Config:     cfg,
			ConfigPath: configPath,
		}

		if client, err := newCouchbaseClient(cfg); err == nil {
			checker.Couchbase = client
		} else {
			log.WithError(err).Debug("creating couchbase client")
		}

		if cfg.ArchiveEnabled() {
			s3Client, err := config.NewS3Client(ctx, cfg.Archive, cfg.Auth)
			if err != nil {
				checker.ArchiveErr = err
			} else {
				checker.Archive = s3Client
			}
		}

		if !checker.RunChecks(ctx) {
			exitFunc(1)
		}
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived copies of pushed design documents",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived design documents of the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(overridesFor(cmd, false))
		if err != nil {
			return err
		}
		if !cfg.ArchiveEnabled() {
			return fmt.Errorf("archive is not configured: set archive.bucket in %s", configPath)
		}

		ctx := cmd.Context()
		s3Client, err := config.NewS3Client(ctx, cfg.Archive, cfg.Auth)
		if err != nil {
			return fmt.Errorf("creating S3 client: %w", err)
		}

		objects, err := archive.List(ctx, s3Client, cfg.Archive.Bucket, cfg.Archive.Prefix, cfg.Bucket.Name)
		if err != nil {
			return fmt.Errorf("listing archive: %w", err)
		}

		output.PrintArchive(cfg.Bucket.Name, objects)
		return nil
	},
}

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to get home directory: %v\n", err)
		homeDir = "~"
	}
	defaultConfigPath = filepath.Join(homeDir, ".ddsync", "config.yaml")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&bucketName, "bucket", "", "bucket name (overrides bucket.name)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every request sent to the server")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "like --debug, and also log request and response bodies with credentials masked")

	ensureCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the documents that would be sent without sending them")
	ensureCmd.Flags().BoolVar(&failOnError, "fail-on-error", true, "exit non-zero when the server rejects a document (overrides fail_on_error)")
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	archiveCmd.AddCommand(archiveListCmd)

	rootCmd.AddCommand(ensureCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(archiveCmd)
}

var exitFunc = os.Exit

func setupLogging(debug, trace bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case trace:
		log.SetLevel(log.TraceLevel)
	case debug:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// overridesFor collects the command-line values that take precedence over the config file.
// offline commands never contact the server and need no credentials.
func overridesFor(cmd *cobra.Command, offline bool) config.Overrides {
	o := config.Overrides{
		Bucket:  bucketName,
		Offline: offline,
	}
	if f := cmd.Flags().Lookup("fail-on-error"); f != nil && f.Changed {
		v := failOnError
		o.FailOnError = &v
	}
	return o
}

func loadConfig(o config.Overrides) (*types.Config, error) {
	cfg, err := config.LoadWithOverrides(configPath, o)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			isDefaultPath := configPath == defaultConfigPath
			if isDefaultPath {
				if err := config.CreateStarterConfig(configPath); err != nil {
					return nil, fmt.Errorf("creating starter config: %w", err)
				}
				printWelcomeMessage(configPath)
				exitFunc(0)
			}
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}
	return cfg, nil
}

func newCouchbaseClient(cfg *types.Config) (*couchbase.Client, error) {
	opts := []couchbase.Option{couchbase.WithTimeout(cfg.Couchbase.Timeout)}
	if log.IsLevelEnabled(log.DebugLevel) {
		opts = append(opts, couchbase.WithRequestLogging(log.StandardLogger()))
	}
	return couchbase.NewClient(cfg.Couchbase.Host, cfg.Couchbase.Username, cfg.Couchbase.Password, opts...)
}

func runEnsure(ctx context.Context, cfg *types.Config) error {
	var opts []syncer.Option
	var sender syncer.Sender

	if dryRun {
		opts = append(opts, syncer.WithDryRun(true))
	} else {
		client, err := newCouchbaseClient(cfg)
		if err != nil {
			return fmt.Errorf("creating couchbase client: %w", err)
		}
		sender = client

		if cfg.ArchiveEnabled() {
			s3Client, err := config.NewS3Client(ctx, cfg.Archive, cfg.Auth)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: archive disabled: %v\n", err)
			} else {
				opts = append(opts, syncer.WithArchiver(archive.New(s3Client, cfg.Archive.Bucket, cfg.Archive.Prefix)))
			}
		}
	}

	result, err := syncer.New(sender, opts...).EnsureDesignDocuments(ctx, cfg.Bucket.Name, cfg.Bucket.DesignDocsPath)
	if err != nil {
		return handleSyncFailure(err, cfg.ShouldFailOnError())
	}

	log.Infof("Ensure document paths for bucket '%s'", cfg.Bucket.Name)
	verb := "Sent"
	if dryRun {
		verb = "Would send"
	}
	fmt.Printf("%s %d design documents (%d flat, %d composite) from %s\n",
		verb, result.Total(), result.Flat, result.Composite, result.LookupDir)
	return nil
}

// handleSyncFailure applies the fail_on_error policy. Only server rejections
// can be tolerated; discovery and transport errors always fail the run.
func handleSyncFailure(err error, failOnError bool) error {
	var syncErr *couchbase.SyncError
	if !errors.As(err, &syncErr) {
		return err
	}

	logSyncError(log.StandardLogger(), syncErr)
	if failOnError {
		return err
	}
	return nil
}

// logSyncError logs the rejection message followed by one line per error entry.
func logSyncError(logger log.FieldLogger, err *couchbase.SyncError) {
	logger.Error(err.Error())
	for _, key := range err.Keys() {
		logger.Errorf("\t%s:\t%s", key, err.Errors[key])
	}
}

// discoverAll returns the bucket's documents in send order.
func discoverAll(dir string) ([]ddoc.Document, error) {
	flat, err := ddoc.DiscoverFlat(dir)
	if err != nil {
		return nil, fmt.Errorf("discovering flat design documents: %w", err)
	}
	composite, err := ddoc.DiscoverComposite(dir)
	if err != nil {
		return nil, fmt.Errorf("discovering composite design documents: %w", err)
	}
	return append(flat, composite...), nil
}

func printWelcomeMessage(configPath string) {
	fmt.Println("Welcome to ddsync!")
	fmt.Println()
	fmt.Printf("A starter configuration file has been created at:\n")
	fmt.Printf("  %s\n", configPath)
	fmt.Println()
	fmt.Println("Please edit this file and configure:")
	fmt.Println("  1. couchbase.host - Your Couchbase view endpoint (port 8092)")
	fmt.Println("  2. couchbase.username and couchbase.password")
	fmt.Println("  3. bucket.name - The bucket whose design documents you push")
	fmt.Println("  4. bucket.design_docs_path - Where the design documents live")
	fmt.Println()
	fmt.Println("Credentials can also be set with DDSYNC_USERNAME and DDSYNC_PASSWORD.")
	fmt.Println()
	fmt.Println("After configuration, run:")
	fmt.Println("  ddsync doctor   # Validate configuration")
	fmt.Println("  ddsync list     # List the design documents to push")
	fmt.Println("  ddsync ensure   # Push every design document")
}
