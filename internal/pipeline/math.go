package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	katex "github.com/FurqanSoftware/goldmark-katex"
)

// DefaultMaxMathSpan bounds the inner length of one $...$ span in bytes.
const DefaultMaxMathSpan = 1000

// mathSpan matches $...$ non-greedily, left to right, without overlap.
// A literal "$" cannot be told apart from a delimiter.
var mathSpan = regexp.MustCompile(`\$(.*?)\$`)

// Typesetter converts a TeX expression (without delimiters) to HTML/MathML.
type Typesetter interface {
	Typeset(expr string) (string, error)
}

// KatexTypesetter renders TeX with KaTeX running in an embedded QuickJS runtime.
type KatexTypesetter struct {
	// Display selects display mode instead of inline mode.
	Display bool
}

// NewKatexTypesetter creates an inline-mode KatexTypesetter.
func NewKatexTypesetter() *KatexTypesetter {
	return &KatexTypesetter{}
}

// Typeset renders expr. KaTeX rejects malformed TeX with an error.
func (k *KatexTypesetter) Typeset(expr string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("katex: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := katex.Render(&buf, []byte(expr), k.Display); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// substituteMath replaces every $...$ span in fragment with its typeset form.
// A span the typesetter rejects, or one longer than maxSpan, keeps its original
// text. It never fails.
func substituteMath(fragment string, ts Typesetter, maxSpan int) string {
	if maxSpan <= 0 {
		maxSpan = DefaultMaxMathSpan
	}
	return mathSpan.ReplaceAllStringFunc(fragment, func(match string) string {
		inner := match[1 : len(match)-1]
		if len(inner) > maxSpan {
			return match
		}
		out, err := ts.Typeset(html.UnescapeString(inner))
		if err != nil {
			return match
		}
		return out
	})
}
