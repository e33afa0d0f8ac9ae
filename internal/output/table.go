package output

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/13rac1/ddsync/internal/archive"
	"github.com/13rac1/ddsync/internal/ddoc"
	"github.com/olekukonko/tablewriter"
)

// PrintDocuments formats and prints design documents, in send order, as an ASCII table.
func PrintDocuments(bucket string, docs []ddoc.Document) {
	if len(docs) == 0 {
		fmt.Printf("No design documents found for bucket '%s'.\n", bucket)
		return
	}

	fmt.Printf("Design Documents (%s)\n", bucket)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Document", "Kind", "Views", "Origin")

	for _, d := range docs {
		table.Append(d.Name, d.Kind.String(), formatCount(len(d.ViewNames())), d.Origin)
	}

	table.Render()
}

// PrintArchive formats and prints archived documents as an ASCII table.
func PrintArchive(bucket string, objects []archive.Object) {
	if len(objects) == 0 {
		fmt.Printf("No archived design documents for bucket '%s'.\n", bucket)
		return
	}

	fmt.Printf("Archived Documents (%s)\n", bucket)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Document", "Size", "Last Modified")

	for _, o := range objects {
		table.Append(o.Document, formatSize(o.Size), formatTime(o.LastModified))
	}

	table.Render()
}

// formatCount formats a count for display, using "-" for zero values.
func formatCount(count int) string {
	if count == 0 {
		return "-"
	}
	return strconv.Itoa(count)
}

// formatSize renders a byte count with a binary unit suffix.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
