// Package syncer pushes a bucket's design documents to Couchbase.
// Flat documents are sent first, then composite documents, one request at a
// time. The first failure stops the run.
package syncer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/13rac1/ddsync/internal/couchbase"
	"github.com/13rac1/ddsync/internal/ddoc"
)

// Sender uploads one design document.
type Sender interface {
	SendDocument(ctx context.Context, bucket, name, body string) error
}

// Archiver keeps a copy of pushed documents. Failures are reported as
// warnings and never change the outcome of a sync.
type Archiver interface {
	Record(ctx context.Context, bucket, name, kind, body string) error
	Flush(ctx context.Context, bucket string) error
}

// Syncer sends discovered design documents to a Sender.
type Syncer struct {
	sender   Sender
	archiver Archiver
	dryRun   bool
	out      io.Writer
	errOut   io.Writer
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithArchiver archives every successfully sent document.
func WithArchiver(a Archiver) Option {
	return func(s *Syncer) { s.archiver = a }
}

// WithDryRun prints wire bodies instead of sending them.
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) { s.dryRun = dryRun }
}

// WithOutput redirects progress and warning output.
func WithOutput(out, errOut io.Writer) Option {
	return func(s *Syncer) {
		s.out = out
		s.errOut = errOut
	}
}

// New creates a Syncer. sender may be nil in dry-run mode.
func New(sender Sender, opts ...Option) *Syncer {
	s := &Syncer{
		sender: sender,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes a sync run.
type Result struct {
	LookupDir string
	Flat      int
	Composite int
	// Sent lists the documents in the order they were sent.
	Sent []string
}

// Total returns the number of documents sent.
func (r *Result) Total() int {
	return r.Flat + r.Composite
}

// EnsureDesignDocuments resolves the lookup directory from pathTemplate and
// sends every flat, then every composite, design document found there.
// Every document is sent on every run.
func (s *Syncer) EnsureDesignDocuments(ctx context.Context, bucketName, pathTemplate string) (*Result, error) {
	if s.sender == nil && !s.dryRun {
		return nil, fmt.Errorf("no sender configured")
	}

	result := &Result{LookupDir: ddoc.LookupDir(pathTemplate, bucketName)}

	if s.archiver != nil {
		defer func() {
			if err := s.archiver.Flush(ctx, bucketName); err != nil {
				fmt.Fprintf(s.errOut, "Warning: failed to save archive manifest: %v\n", err)
			}
		}()
	}

	flat, err := ddoc.DiscoverFlat(result.LookupDir)
	if err != nil {
		return result, fmt.Errorf("discovering flat design documents: %w", err)
	}
	if err := s.sendAll(ctx, bucketName, flat, result); err != nil {
		return result, err
	}

	composite, err := ddoc.DiscoverComposite(result.LookupDir)
	if err != nil {
		return result, fmt.Errorf("discovering composite design documents: %w", err)
	}
	if err := s.sendAll(ctx, bucketName, composite, result); err != nil {
		return result, err
	}

	return result, nil
}

func (s *Syncer) sendAll(ctx context.Context, bucketName string, docs []ddoc.Document, result *Result) error {
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sync cancelled: %w", err)
		}

		wire := couchbase.WireBody(doc.Body)

		if s.dryRun {
			fmt.Fprintf(s.out, "[%s %d/%d] Would send %s\n%s\n", doc.Kind, i+1, len(docs), doc.Name, wire)
		} else {
			fmt.Fprintf(s.out, "[%s %d/%d] Sending %s\n", doc.Kind, i+1, len(docs), doc.Name)
			if err := s.sender.SendDocument(ctx, bucketName, doc.Name, doc.Body); err != nil {
				return fmt.Errorf("sending design document %s: %w", doc.Name, err)
			}
			s.archive(ctx, bucketName, doc, wire)
		}

		switch doc.Kind {
		case ddoc.Flat:
			result.Flat++
		case ddoc.Composite:
			result.Composite++
		}
		result.Sent = append(result.Sent, doc.Name)
	}
	return nil
}

func (s *Syncer) archive(ctx context.Context, bucketName string, doc ddoc.Document, wire string) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Record(ctx, bucketName, doc.Name, doc.Kind.String(), wire); err != nil {
		fmt.Fprintf(s.errOut, "Warning: %v\n", err)
	}
}
