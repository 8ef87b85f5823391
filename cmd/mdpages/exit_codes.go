package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/config"
	"github.com/alnah/go-mdpages/internal/export"
	"github.com/alnah/go-mdpages/internal/share"
)

// Exit codes for the mdpages CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Clean exit
	ExitGeneral = 1 // General/unexpected error, failed renders
	ExitUsage   = 2 // Invalid flags, config, or assets
	ExitIO      = 3 // File not found, listen failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, export.ErrBrowserConnect) ||
		errors.Is(err, export.ErrPageCreate) ||
		errors.Is(err, export.ErrPageLoad) ||
		errors.Is(err, export.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrListen) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrPageSetNotFound) ||
		errors.Is(err, assets.ErrIncompletePageSet) ||
		errors.Is(err, assets.ErrTemplateParse) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, export.ErrInvalidPaper) ||
		errors.Is(err, share.ErrMalformedToken) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitGeneral
}
