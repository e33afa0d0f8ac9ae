package ddoc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Kind identifies the on-disk representation of a design document.
type Kind int

const (
	// Flat is a single <name>.ddoc file holding the whole body.
	Flat Kind = iota
	// Composite is a directory of <view>.js and <view>.reduce files.
	Composite
)

func (k Kind) String() string {
	switch k {
	case Flat:
		return "flat"
	case Composite:
		return "composite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source is a discovered on-disk origin of one design document.
type Source struct {
	Name string // document name, no extension or separators
	Kind Kind
	Path string // file for Flat, directory for Composite

	entryName string // directory entry name, used for ordering
}

// Document is the unit sent to the server.
type Document struct {
	Name   string
	Kind   Kind
	Origin string
	// Body is JSON text before wire serialization. Composite bodies may
	// contain raw newlines from the view scripts.
	Body string
}

// Load builds the Document for s using the assembly rules of its kind.
func (s Source) Load() (Document, error) {
	var (
		body string
		err  error
	)

	switch s.Kind {
	case Flat:
		body, err = LoadSource(s.Path)
	case Composite:
		body, err = assembleComposite(s.Path)
	default:
		return Document{}, fmt.Errorf("unknown source kind %v for %s", s.Kind, s.Path)
	}
	if err != nil {
		return Document{}, err
	}

	return Document{
		Name:   s.Name,
		Kind:   s.Kind,
		Origin: s.Path,
		Body:   body,
	}, nil
}

// ViewNames returns the names of the views the body defines, in body order.
func (d Document) ViewNames() []string {
	var names []string
	gjson.Get(d.Body, "views").ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

// loadAll loads every source in order, stopping at the first failure.
func loadAll(sources []Source) ([]Document, error) {
	docs := make([]Document, 0, len(sources))
	for _, s := range sources {
		doc, err := s.Load()
		if err != nil {
			return nil, fmt.Errorf("loading %s design document %s: %w", s.Kind, s.Name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// resolveEntry classifies a directory entry by what it points to, so a
// symlink to a directory counts as a directory. A dangling link keeps its
// own info and fails later, when it is loaded.
func resolveEntry(dir string, entry os.FileInfo) os.FileInfo {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry
	}
	info, err := fs.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		return entry
	}
	return info
}

// readDir lists dir sorted by entry name.
func readDir(dir string) ([]os.FileInfo, error) {
	return afero.ReadDir(fs, dir)
}
