package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup. It must always return a safe subset of its input.
type Sanitizer interface {
	Sanitize(html string) string
}

// MathML elements KaTeX emits in its htmlAndMathml output.
var mathMLElements = []string{
	"math", "semantics", "annotation", "mrow", "mi", "mn", "mo", "ms", "mtext",
	"mspace", "msup", "msub", "msubsup", "mfrac", "msqrt", "mroot", "mover",
	"munder", "munderover", "mtable", "mtr", "mtd", "mstyle", "mpadded",
	"mphantom", "menclose", "mglyph",
}

var mathMLAttrs = []string{
	"mathvariant", "stretchy", "fence", "separator", "lspace", "rspace",
	"accent", "accentunder", "minsize", "maxsize", "movablelimits", "symmetric",
	"largeop", "width", "height", "depth", "voffset", "columnalign", "rowalign",
	"rowspacing", "columnspacing", "scriptlevel", "displaystyle",
	"linethickness", "notation", "mathcolor", "mathbackground",
}

// Inline style properties KaTeX sets on its layout spans. Values must be
// plain lengths.
var katexStyleProps = []string{
	"height", "width", "min-width", "top", "vertical-align",
	"margin-left", "margin-right", "margin-top", "margin-bottom",
	"padding-left", "border-bottom-width", "border-right-width",
}

var cssLength = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)(em|ex|px|%)?$`)

// PolicySanitizer sanitizes with a bluemonday policy.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewPolicySanitizer returns a sanitizer using policy.
func NewPolicySanitizer(policy *bluemonday.Policy) *PolicySanitizer {
	return &PolicySanitizer{policy: policy}
}

// NewDefaultSanitizer returns the UGC policy extended for KaTeX output:
// MathML, the SVG used by stretchy symbols, classes, and the length-only
// inline styles KaTeX puts on spans.
func NewDefaultSanitizer() *PolicySanitizer {
	return NewPolicySanitizer(MathPolicy())
}

// MathPolicy builds the default policy.
func MathPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowAttrs("class").Globally()
	p.AllowAttrs("aria-hidden").Globally()
	p.AllowStyles(katexStyleProps...).Matching(cssLength).OnElements("span")
	p.AllowStyles("position").MatchingEnum("relative").OnElements("span")

	p.AllowElements(mathMLElements...)
	p.AllowNoAttrs().OnElements(mathMLElements...)
	p.AllowAttrs("xmlns", "display").OnElements("math")
	p.AllowAttrs("encoding").OnElements("annotation")
	p.AllowAttrs(mathMLAttrs...).OnElements(mathMLElements...)

	p.AllowElements("svg", "path", "line")
	p.AllowNoAttrs().OnElements("svg", "path", "line")
	p.AllowAttrs("xmlns", "width", "height", "viewbox", "preserveaspectratio").OnElements("svg")
	p.AllowAttrs("d").OnElements("path")
	p.AllowAttrs("x1", "y1", "x2", "y2", "stroke-width").OnElements("line")

	return p
}

// Sanitize returns the safe subset of html.
func (s *PolicySanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
