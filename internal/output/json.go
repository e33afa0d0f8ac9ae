package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/13rac1/ddsync/internal/ddoc"
	"github.com/13rac1/ddsync/internal/types"
)

// JSONOutput represents the complete JSON output structure.
type JSONOutput struct {
	GeneratedAt string     `json:"generatedAt"`
	Config      ConfigInfo `json:"config"`
	LookupDir   string     `json:"lookupDir"`
	Documents   []Document `json:"documents"`
}

// ConfigInfo holds configuration details for JSON output.
type ConfigInfo struct {
	Host          string `json:"host"`
	Bucket        string `json:"bucket"`
	ArchiveBucket string `json:"archiveBucket,omitempty"`
	ArchivePrefix string `json:"archivePrefix,omitempty"`
}

// Document represents a design document in JSON output.
type Document struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Origin string   `json:"origin"`
	Views  []string `json:"views"`
}

// PrintJSON formats and prints design documents as JSON to stdout.
// Credentials are never included.
func PrintJSON(docs []ddoc.Document, lookupDir string, cfg *types.Config) error {
	output := JSONOutput{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Config:      buildConfigInfo(cfg),
		LookupDir:   lookupDir,
		Documents:   buildDocuments(docs),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func buildConfigInfo(cfg *types.Config) ConfigInfo {
	info := ConfigInfo{
		Host:   cfg.Couchbase.DisplayHost(),
		Bucket: cfg.Bucket.Name,
	}
	if cfg.ArchiveEnabled() {
		info.ArchiveBucket = cfg.Archive.Bucket
		info.ArchivePrefix = cfg.Archive.Prefix
	}
	return info
}

func buildDocuments(docs []ddoc.Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		views := d.ViewNames()
		if views == nil {
			views = []string{}
		}
		out = append(out, Document{
			Name:   d.Name,
			Kind:   d.Kind.String(),
			Origin: d.Origin,
			Views:  views,
		})
	}
	return out
}
