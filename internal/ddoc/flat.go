package ddoc

import (
	"path/filepath"
	"strings"
)

// FlatExt is the extension of single-file design documents.
const FlatExt = ".ddoc"

// FindFlatSources lists the <name>.ddoc regular files directly inside dir,
// in push order. A missing directory yields no sources.
func FindFlatSources(dir string) ([]Source, error) {
	entries, err := readLookupDir(dir)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, entry := range entries {
		if resolveEntry(dir, entry).IsDir() || !strings.HasSuffix(entry.Name(), FlatExt) {
			continue
		}

		sources = append(sources, Source{
			Name:      strings.TrimSuffix(entry.Name(), FlatExt),
			Kind:      Flat,
			Path:      filepath.Join(dir, entry.Name()),
			entryName: entry.Name(),
		})
	}

	sortSources(sources)
	return sources, nil
}

// DiscoverFlat loads every flat design document in dir, in push order.
// Each body is the file content verbatim.
func DiscoverFlat(dir string) ([]Document, error) {
	sources, err := FindFlatSources(dir)
	if err != nil {
		return nil, err
	}
	return loadAll(sources)
}
