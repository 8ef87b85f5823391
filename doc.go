// Package mdpages renders Markdown with inline math and shares documents as URLs.
//
// # Quick Start
//
// Create an engine and render:
//
//	eng := mdpages.New()
//
//	res, err := eng.Render(ctx, "# Hi\n\n$x^2$")
//	if err != nil {
//	    log.Fatal(err) // the render services could not load
//	}
//	if !res.OK() {
//	    fmt.Println(res.Detail()) // parse or sanitize failure, shown verbatim
//	}
//	fmt.Println(res.HTML)
//
// The engine loads its services (Markdown parser, KaTeX typesetter, chroma
// highlighter) on first use. Call Start to begin loading them ahead of time.
//
// # Render Pipeline
//
// Every render runs the same stages in order:
//
//  1. Markdown to HTML via goldmark (GFM, raw HTML kept for the sanitizer)
//  2. $...$ math spans replaced with KaTeX markup; spans that fail stay literal
//  3. Sanitization via bluemonday (script, event handlers, javascript: URLs)
//  4. Code block highlighting via chroma, after sanitization
//
// Stage 4 never fails a render: if highlighting fails the sanitized HTML is
// returned unhighlighted.
//
// # Sharing
//
// A document travels in a URL as a token in the "content" query parameter:
//
//	u := eng.ShareURL("https://pages.example.com/", doc)
//	// https://pages.example.com/?content=IyBIaQ
//
//	res, err := eng.RenderShared(ctx, token)
//
// Tokens are the UTF-8 bytes of the document in unpadded URL-safe base64.
// A token that does not decode yields a Result of kind DecodeFailure.
//
// # Configuration
//
// Use functional options to customize the engine:
//
//	eng := mdpages.New(
//	    mdpages.WithHardWraps(true),
//	    mdpages.WithHighlightStyle("github"),
//	    mdpages.WithMaxTokenLength(1 << 20),
//	    mdpages.WithLogger(slog.Default()),
//	)
//
// The web application built on this package lives in cmd/mdpages.
package mdpages
