package assets

import "errors"

// Resolver tries a custom loader first and falls back to the embedded
// assets when the custom one does not have the asset.
type Resolver struct {
	custom   Loader // nil if no custom path configured
	embedded Loader
}

// NewResolver creates a Resolver. An empty customBasePath uses embedded
// assets only; an invalid one is an error.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadStyle loads a CSS style, custom first.
func (r *Resolver) LoadStyle(name string) (string, error) {
	return withFallback(r, func(l Loader) (string, error) { return l.LoadStyle(name) })
}

// LoadPageSet loads a page set, custom first.
func (r *Resolver) LoadPageSet(name string) (*PageSet, error) {
	return withFallback(r, func(l Loader) (*PageSet, error) { return l.LoadPageSet(name) })
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

func withFallback[T any](r *Resolver, load func(Loader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	v, err := load(r.custom)
	if err == nil {
		return v, nil
	}
	// Validation, I/O and incomplete-set errors are not masked by the fallback.
	if !isNotFoundError(err) {
		return v, err
	}
	return load(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrPageSetNotFound)
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
