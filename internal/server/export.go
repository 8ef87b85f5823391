package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/alnah/go-mdpages/internal/export"
	"github.com/alnah/go-mdpages/internal/share"
)

// handleExport renders the shared document in ?content= to PDF. It runs
// the pipeline directly; no session is created.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.opts.Exporter == nil {
		http.NotFound(w, r)
		return
	}

	token, ok := share.TokenFrom(r.URL.Query())
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("missing content parameter"))
		return
	}
	doc, err := s.opts.Codec.Decode(token)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := s.opts.Pipeline.Render(r.Context(), doc)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if !out.OK() {
		writeError(w, http.StatusUnprocessableEntity, out.Err)
		return
	}
	body, herr := s.opts.Pipeline.Highlight(r.Context(), out.HTML)
	if herr != nil {
		s.logger.Warn("code highlighting failed", "error", herr)
	}

	styles := []string{s.opts.Assets.Style}
	if css, err := s.opts.Pipeline.HighlightCSS(r.Context()); err == nil {
		styles = append(styles, css)
	}
	var links []string
	if s.opts.KatexCSS != "" {
		links = append(links, s.opts.KatexCSS)
	}

	pdf, err := s.opts.Exporter.Export(r.Context(), export.Document{
		Base:       s.origin(r),
		Body:       template.HTML(body), // #nosec G203 -- sanitized by the render pipeline
		Styles:     styles,
		StyleLinks: links,
	})
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.logger.Error("pdf export failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrBrowserConnect) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="document.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}
