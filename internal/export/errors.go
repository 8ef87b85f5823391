package export

import "errors"

// Sentinel errors for export operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrInvalidPaper   = errors.New("invalid paper size")
	ErrClosed         = errors.New("exporter is closed")
)
