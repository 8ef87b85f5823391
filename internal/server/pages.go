package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/session"
	"github.com/alnah/go-mdpages/internal/share"
)

// handleIndex serves the editor, or the viewer or error page for a shared
// document.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	token, shared := share.TokenFrom(r.URL.Query())
	if !shared {
		sess, err := s.opts.Manager.Open()
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		s.renderPage(w, http.StatusOK, assets.PageEditor, assets.PageData{
			SessionID: sess.ID(),
			Mode:      session.Editing.String(),
		})
		return
	}

	sess, err := s.opts.Manager.OpenShared(token)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	st, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	if st.Mode == session.Failed {
		// Failed is terminal; nothing will address this session again.
		_ = s.opts.Manager.Close(st.ID)
		status := http.StatusOK
		if st.Kind == fault.DecodeFailure {
			status = http.StatusBadRequest
		}
		s.renderPage(w, status, assets.PageError, assets.PageData{
			Mode:   st.Mode.String(),
			Detail: st.Detail,
		})
		return
	}

	data := assets.PageData{
		SessionID: st.ID,
		Mode:      st.Mode.String(),
		Content:   template.HTML(st.Display), // #nosec G203 -- sanitized by the render pipeline
		Revision:  st.Revision,
	}
	if s.opts.Exporter != nil {
		data.ExportURL = "/export.pdf?" + url.Values{share.Param: {token}}.Encode()
	}
	s.renderPage(w, http.StatusOK, assets.PageViewer, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page assets.Page, data assets.PageData) {
	data.KatexCSS = s.opts.KatexCSS

	var buf bytes.Buffer
	if err := s.opts.Assets.Pages.Render(&buf, page, data); err != nil {
		s.logger.Error("page render failed", "page", string(page), "error", err)
		http.Error(w, "page template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(s.opts.Assets.Style))
}

func (s *Server) handleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	css, err := s.opts.Pipeline.HighlightCSS(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.logger.Warn("highlight stylesheet unavailable", "error", err)
		http.Error(w, "highlight stylesheet unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(css))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Ready:    s.opts.Pipeline.Ready(),
		Sessions: s.opts.Manager.Len(),
	})
}
