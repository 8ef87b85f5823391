package export

import (
	"bytes"
	"fmt"
	"html/template"
)

// Document is a rendered page ready for printing.
type Document struct {
	Title string
	// Base resolves relative links and images; the page is loaded from about:blank.
	Base string
	// Body is sanitized, highlighted render output.
	Body template.HTML
	// Styles are inlined stylesheets, in order.
	Styles []string
	// StyleLinks are external stylesheet URLs (KaTeX fonts).
	StyleLinks []string
}

var printPage = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}mdpages{{end}}</title>
{{if .Base}}<base href="{{.Base}}">
{{end}}{{range .StyleLinks}}<link rel="stylesheet" href="{{.}}">
{{end}}{{range .Styles}}<style>{{.}}</style>
{{end}}</head>
<body>
<article class="markdown-body">{{.Body}}</article>
</body>
</html>
`))

// HTML returns the standalone page Chrome prints.
func (d Document) HTML() (string, error) {
	styles := make([]template.CSS, len(d.Styles))
	for i, s := range d.Styles {
		styles[i] = template.CSS(s) // #nosec G203 -- stylesheets come from trusted assets
	}

	var buf bytes.Buffer
	err := printPage.Execute(&buf, struct {
		Title      string
		Base       string
		Body       template.HTML
		Styles     []template.CSS
		StyleLinks []string
	}{d.Title, d.Base, d.Body, styles, d.StyleLinks})
	if err != nil {
		return "", fmt.Errorf("building print page: %w", err)
	}
	return buf.String(), nil
}
