// Package pipeline turns Markdown with $math$ spans into safe, display-ready HTML.
//
// Render runs these stages in order, each consuming the previous output:
//   - Markdown to HTML via Goldmark (GFM, footnotes, heading IDs)
//   - $...$ math substitution via KaTeX, with per-span fallback to the original text
//   - sanitization via bluemonday, always after math so typeset markup is checked too
//
// Only the math stage recovers locally; a failure in any other stage fails the
// whole render. Code highlighting (chroma) is not part of Render: callers apply
// it to the final output once it is attached to a page, and its failures never
// change the render outcome.
//
// The three lazily loaded services (parser, typesetter, highlighter) sit behind
// readiness gates; Render blocks until all of them are ready.
package pipeline
