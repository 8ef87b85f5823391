package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrPageSetNotFound indicates the requested page set does not exist.
	ErrPageSetNotFound = errors.New("page set not found")

	// ErrIncompletePageSet indicates a page set is missing a required template.
	ErrIncompletePageSet = errors.New("page set missing required template")

	// ErrTemplateParse indicates a page template failed to parse.
	ErrTemplateParse = errors.New("failed to parse page template")

	// ErrUnknownPage indicates a render request for a page the set lacks.
	ErrUnknownPage = errors.New("unknown page")

	// ErrInvalidAssetName indicates the asset name contains invalid characters.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
