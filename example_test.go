package mdpages_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/alnah/go-mdpages"
)

// Example renders a document with a heading and an inline formula.
// Not run as a test: the first render loads the KaTeX runtime.
func Example() {
	eng := mdpages.New()

	res, err := eng.Render(context.Background(), "# Hi\n\n$x^2$")
	if err != nil {
		log.Fatal(err)
	}
	if !res.OK() {
		fmt.Println("render failed:", res.Detail())
		return
	}
	fmt.Println(res.HTML)
}

// ExampleEngine_ShareURL builds the read-only link for a document.
func ExampleEngine_ShareURL() {
	eng := mdpages.New()

	fmt.Println(eng.ShareURL("https://pages.example.com/", "# Hi"))
	fmt.Println(eng.ShareURL("https://pages.example.com/?content=old#top", "# Hi"))
	// Output:
	// https://pages.example.com/?content=IyBIaQ
	// https://pages.example.com/?content=IyBIaQ
}

// ExampleEngine_Decode recovers the document from a token.
func ExampleEngine_Decode() {
	eng := mdpages.New()

	doc, err := eng.Decode("IyBIaQ")
	fmt.Printf("%q %v\n", doc, err)

	_, err = eng.Decode("not!base64")
	fmt.Println(errors.Is(err, mdpages.ErrMalformedToken))
	// Output:
	// "# Hi" <nil>
	// true
}

// ExampleEngine_RenderShared shows that a broken token is a render failure,
// not an error.
func ExampleEngine_RenderShared() {
	eng := mdpages.New()

	res, err := eng.RenderShared(context.Background(), "%%%")
	fmt.Println(err, res.OK(), res.Kind())
	// Output: <nil> false decode
}
