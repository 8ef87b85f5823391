package assets

// Loader loads stylesheets and page template sets.
type Loader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadPageSet loads the templates under templates/{name}/.
	// Returns ErrPageSetNotFound if none of them exist and
	// ErrIncompletePageSet if only some do.
	LoadPageSet(name string) (*PageSet, error)
}
