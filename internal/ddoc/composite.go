package ddoc

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// MapExt is the extension of view map function files.
	MapExt = ".js"
	// ReduceExt is the extension of the optional reduce function paired with a view.
	ReduceExt = ".reduce"
)

// ViewDefinition is one view read from a composite source.
type ViewDefinition struct {
	Name   string
	Map    string // double quotes already escaped
	Reduce string
	// HasReduce distinguishes an empty reduce file from a missing one.
	HasReduce bool
}

// FindCompositeSources lists the non-empty directories directly inside dir,
// in push order. A missing directory yields no sources.
func FindCompositeSources(dir string) ([]Source, error) {
	entries, err := readLookupDir(dir)
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, entry := range entries {
		if !resolveEntry(dir, entry).IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		children, err := readDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading design directory %s: %w", path, err)
		}
		if len(children) == 0 {
			continue
		}

		sources = append(sources, Source{
			Name:      entry.Name(),
			Kind:      Composite,
			Path:      path,
			entryName: entry.Name(),
		})
	}

	sortSources(sources)
	return sources, nil
}

// DiscoverComposite assembles every composite design document in dir, in push order.
func DiscoverComposite(dir string) ([]Document, error) {
	sources, err := FindCompositeSources(dir)
	if err != nil {
		return nil, err
	}
	return loadAll(sources)
}

// ReadViews reads the view definitions of a composite source directory.
// Views are ordered by file name.
func ReadViews(dir string) ([]ViewDefinition, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading design directory %s: %w", dir, err)
	}

	var views []ViewDefinition
	for _, entry := range entries {
		if resolveEntry(dir, entry).IsDir() || !strings.HasSuffix(entry.Name(), MapExt) {
			continue
		}

		viewName := strings.TrimSuffix(entry.Name(), MapExt)
		mapText, err := LoadSource(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		view := ViewDefinition{
			Name: viewName,
			Map:  strings.ReplaceAll(mapText, `"`, `\"`),
		}

		reducePath := filepath.Join(dir, viewName+ReduceExt)
		if info, err := fs.Stat(reducePath); err == nil && !info.IsDir() {
			reduceText, err := LoadSource(reducePath)
			if err != nil {
				return nil, err
			}
			view.Reduce = reduceText
			view.HasReduce = true
		}

		views = append(views, view)
	}

	return views, nil
}

// AssembleViews renders views as a design document body:
// {"views":{"<name>":{"map":"<map>"[,"reduce":"<reduce>"]},...}}
// Text is inserted as read; newlines are escaped later, at send time.
func AssembleViews(views []ViewDefinition) string {
	var sb strings.Builder
	sb.WriteString(`{"views":{`)
	for i, v := range views {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(v.Name)
		sb.WriteString(`":{"map":"`)
		sb.WriteString(v.Map)
		sb.WriteByte('"')
		if v.HasReduce {
			sb.WriteString(`,"reduce":"`)
			sb.WriteString(v.Reduce)
			sb.WriteByte('"')
		}
		sb.WriteByte('}')
	}
	sb.WriteString("}}")
	return sb.String()
}

func assembleComposite(dir string) (string, error) {
	views, err := ReadViews(dir)
	if err != nil {
		return "", err
	}
	return AssembleViews(views), nil
}
