package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadPageSet loads an embedded page set by name.
func (e *EmbeddedLoader) LoadPageSet(name string) (*PageSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return loadPageSet(name, func(file string) ([]byte, error) {
		return templates.ReadFile("templates/" + name + "/" + file + ".html")
	})
}

// loadPageSet reads every file of a set through read, classifying missing
// files as not-found or incomplete.
func loadPageSet(name string, read func(file string) ([]byte, error)) (*PageSet, error) {
	files := make(map[string]string, len(pageFiles))
	var missing []string
	for _, file := range pageFiles {
		data, err := read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, file+".html")
				continue
			}
			if errors.Is(err, ErrPathTraversal) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: reading %s.html: %v", ErrAssetRead, file, err)
		}
		files[file] = string(data)
	}

	switch {
	case len(missing) == len(pageFiles):
		return nil, fmt.Errorf("%w: %q", ErrPageSetNotFound, name)
	case len(missing) > 0:
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompletePageSet, name, missing[0])
	}
	return newPageSet(name, files), nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
