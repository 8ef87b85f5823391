package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "monokai"

// highlightedClass marks code elements that were already highlighted.
const highlightedClass = "chroma"

// Highlighter annotates code blocks in rendered output with syntax-coloring markup.
// It runs after sanitization, on output that is ready for display.
type Highlighter interface {
	// Highlight returns fragment with every <pre><code> block highlighted.
	// Blocks that cannot be highlighted are left as they are. On error the
	// returned string is fragment unchanged.
	Highlight(fragment string) (string, error)
	// CSS returns the stylesheet matching the emitted classes.
	CSS() (string, error)
}

// ChromaHighlighter highlights code blocks with chroma using CSS classes.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter for the named chroma style.
// Unknown names fall back to chroma's default style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	return &ChromaHighlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true), // CSS classes for smaller HTML and external stylesheet control
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// CSS returns the stylesheet for the configured style.
func (h *ChromaHighlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// Highlight highlights every <pre><code> block in fragment.
func (h *ChromaHighlighter) Highlight(fragment string) (out string, err error) {
	if !strings.Contains(fragment, "<pre") {
		return fragment, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = fragment, fmt.Errorf("highlighting: %v", r)
		}
	}()

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return fragment, fmt.Errorf("parsing rendered HTML: %w", err)
	}

	changed := 0
	for _, n := range nodes {
		changed += h.walk(n)
	}
	if changed == 0 {
		return fragment, nil
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return fragment, fmt.Errorf("rendering highlighted HTML: %w", err)
		}
	}
	return buf.String(), nil
}

// walk highlights code blocks under n and returns how many changed.
func (h *ChromaHighlighter) walk(n *html.Node) int {
	if n.Type == html.ElementNode && n.DataAtom == atom.Code &&
		n.Parent != nil && n.Parent.DataAtom == atom.Pre {
		if h.highlightBlock(n) {
			return 1
		}
		return 0
	}

	changed := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		changed += h.walk(c)
	}
	return changed
}

// highlightBlock replaces the children of one code element. It reports
// whether the block was highlighted; any failure leaves it untouched.
func (h *ChromaHighlighter) highlightBlock(code *html.Node) bool {
	class := attr(code, "class")
	if hasClass(class, highlightedClass) {
		return false
	}

	source := textContent(code)
	lexer := lexerFor(languageOf(class), source)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return false
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return false
	}

	children, err := html.ParseFragment(&buf, code)
	if err != nil {
		return false
	}

	for c := code.FirstChild; c != nil; {
		next := c.NextSibling
		code.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		code.AppendChild(c)
	}
	setAttr(code, "class", strings.TrimSpace(class+" "+highlightedClass))
	return true
}

// lexerFor picks a lexer by fence language, then by content analysis.
func lexerFor(lang, source string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// languageOf extracts "go" from class="language-go".
func languageOf(class string) string {
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return lang
		}
	}
	return ""
}

func hasClass(class, name string) bool {
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
