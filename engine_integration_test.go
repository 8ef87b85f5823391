//go:build integration

package mdpages

import (
	"context"
	"strings"
	"testing"
)

func TestEngine_Render_Integration(t *testing.T) {
	t.Parallel()

	e := New()
	e.Start()
	ctx := context.Background()

	t.Run("heading and formula", func(t *testing.T) {
		res, err := e.Render(ctx, "# Hi\n$x^2$")
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !res.OK() {
			t.Fatalf("Render() failed: %s", res.Detail())
		}
		if !strings.Contains(res.HTML, "<h1") || !strings.Contains(res.HTML, "Hi") {
			t.Errorf("missing heading in %q", res.HTML)
		}
		if strings.Contains(res.HTML, "$") {
			t.Errorf("math delimiter left in %q", res.HTML)
		}
		if !strings.Contains(res.HTML, "katex") {
			t.Errorf("formula not typeset in %q", res.HTML)
		}
	})

	t.Run("script removed around math", func(t *testing.T) {
		res, err := e.Render(ctx, "<script>alert(1)</script> $y$ <img src=x onerror=alert(1)>")
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if strings.Contains(res.HTML, "<script") || strings.Contains(res.HTML, "onerror") {
			t.Errorf("unsafe markup survived: %q", res.HTML)
		}
	})

	t.Run("code block highlighted", func(t *testing.T) {
		res, err := e.Render(ctx, "```go\nfunc main() {}\n```")
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(res.HTML, "chroma") {
			t.Errorf("code block not highlighted: %q", res.HTML)
		}
	})

	t.Run("empty shared document", func(t *testing.T) {
		res, err := e.RenderShared(ctx, e.Encode(""))
		if err != nil {
			t.Fatalf("RenderShared() error = %v", err)
		}
		if !res.OK() || res.HTML != "" {
			t.Errorf("RenderShared(empty) = %+v, want empty success", res)
		}
		if !e.Ready() {
			t.Error("Ready() = false after a render")
		}
	})
}
