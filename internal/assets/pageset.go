package assets

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// Page names a template within a PageSet.
type Page string

// Pages every set provides.
const (
	PageEditor Page = "editor"
	PageViewer Page = "viewer"
	PageError  Page = "error"
)

// layoutFile holds the definitions shared by every page.
const layoutFile = "layout"

// pageFiles lists the templates a page set must contain, layout first.
var pageFiles = []string{layoutFile, string(PageEditor), string(PageViewer), string(PageError)}

// DefaultPageSetName is the name of the built-in page set.
const DefaultPageSetName = "default"

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "default"

// PageSet holds the raw page templates of one set.
type PageSet struct {
	Name   string
	Layout string
	Editor string
	Viewer string
	Error  string
}

func (ps *PageSet) source(file string) string {
	switch file {
	case layoutFile:
		return ps.Layout
	case string(PageEditor):
		return ps.Editor
	case string(PageViewer):
		return ps.Viewer
	default:
		return ps.Error
	}
}

func newPageSet(name string, files map[string]string) *PageSet {
	return &PageSet{
		Name:   name,
		Layout: files[layoutFile],
		Editor: files[string(PageEditor)],
		Viewer: files[string(PageViewer)],
		Error:  files[string(PageError)],
	}
}

// PageData is what every page template renders.
type PageData struct {
	Title     string
	SessionID string
	Mode      string
	// Content is sanitized render output.
	Content  template.HTML
	Document string
	Detail   string
	KatexCSS string
	Revision int
	// ExportURL links the PDF export of a shared document, empty when disabled.
	ExportURL string
}

// Pages is a parsed PageSet.
type Pages struct {
	name  string
	pages map[Page]*template.Template
}

// Parse compiles each page together with the shared layout.
func (ps *PageSet) Parse() (*Pages, error) {
	layout, err := template.New(layoutFile).Parse(ps.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/layout.html: %v", ErrTemplateParse, ps.Name, err)
	}

	p := &Pages{name: ps.Name, pages: make(map[Page]*template.Template, 3)}
	for _, file := range pageFiles[1:] {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
		}
		tmpl, err := base.New(file).Parse(ps.source(file))
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s.html: %v", ErrTemplateParse, ps.Name, file, err)
		}
		p.pages[Page(file)] = tmpl
	}
	return p, nil
}

// Render executes page into w. Output is buffered so a template error never
// leaves a partial page on w.
func (p *Pages) Render(w io.Writer, page Page, data PageData) error {
	tmpl, ok := p.pages[page]
	if !ok {
		return fmt.Errorf("%w: %q in set %q", ErrUnknownPage, page, p.name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, string(page), data); err != nil {
		return fmt.Errorf("rendering %s page: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
