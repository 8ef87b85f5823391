package mdpages

import (
	"github.com/alnah/go-mdpages/internal/pipeline"
	"github.com/alnah/go-mdpages/internal/share"
)

// Sentinel errors for library operations.
var (
	// ErrMalformedToken is wrapped by every token decode error.
	ErrMalformedToken = share.ErrMalformedToken

	// ErrServicesUnavailable indicates the render services failed to load or
	// the context ended while waiting for them.
	ErrServicesUnavailable = pipeline.ErrServicesUnavailable
)
