package pipeline

import "github.com/alnah/go-mdpages/internal/fault"

// Outcome is the result of one render: Success (Err == nil) or Failure.
// Outcomes are values; a newer render supersedes an older one, never merges.
type Outcome struct {
	HTML string
	Err  *fault.Error
}

// Success returns a successful Outcome.
func Success(html string) Outcome { return Outcome{HTML: html} }

// Failure returns a failed Outcome.
func Failure(err *fault.Error) Outcome { return Outcome{Err: err} }

// OK reports whether the render succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Detail returns the failure message, or "" on success.
func (o Outcome) Detail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Detail
}
