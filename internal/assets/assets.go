package assets

import "fmt"

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded stylesheet by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadPageSet loads an embedded page set by name.
func LoadPageSet(name string) (*PageSet, error) {
	return defaultLoader.LoadPageSet(name)
}

// Bundle is everything the HTTP surface serves from assets.
type Bundle struct {
	Pages *Pages
	Style string
}

// LoadBundle resolves the page set and stylesheet through l and parses the pages.
func LoadBundle(l Loader, pageSet, style string) (*Bundle, error) {
	if pageSet == "" {
		pageSet = DefaultPageSetName
	}
	if style == "" {
		style = DefaultStyleName
	}

	ps, err := l.LoadPageSet(pageSet)
	if err != nil {
		return nil, err
	}
	pages, err := ps.Parse()
	if err != nil {
		return nil, err
	}
	css, err := l.LoadStyle(style)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	return &Bundle{Pages: pages, Style: css}, nil
}
