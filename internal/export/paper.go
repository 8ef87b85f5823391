package export

import (
	"fmt"
	"strings"
)

// Paper is a page size in inches.
type Paper struct {
	Name          string
	Width, Height float64
}

// Supported paper sizes.
var (
	Letter = Paper{Name: "letter", Width: 8.5, Height: 11}
	A4     = Paper{Name: "a4", Width: 8.27, Height: 11.69}
	Legal  = Paper{Name: "legal", Width: 8.5, Height: 14}
)

// marginInches is applied on every side; the bottom grows for the page footer.
const (
	marginInches       = 0.5
	marginBottomFooter = 0.75
)

// ParsePaper resolves a paper name. Empty means Letter.
func ParsePaper(name string) (Paper, error) {
	switch strings.ToLower(name) {
	case "", Letter.Name:
		return Letter, nil
	case A4.Name:
		return A4, nil
	case Legal.Name:
		return Legal, nil
	}
	return Paper{}, fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPaper, name)
}
