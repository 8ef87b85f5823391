package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/alnah/go-mdpages/internal/session"
	"github.com/alnah/go-mdpages/internal/share"
)

// lookup resolves the {id} session or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.opts.Manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

// readText reads a UTF-8 request body of at most limit bytes.
func readText(w http.ResponseWriter, r *http.Request, limit int64) (string, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		return "", http.StatusBadRequest, fmt.Errorf("reading body: %w", err)
	}
	if !utf8.Valid(body) {
		return "", http.StatusBadRequest, errors.New("body is not valid UTF-8 text")
	}
	return string(body), http.StatusOK, nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusGone, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

// handleContent applies an edit. Failed sessions answer 200 with mode
// "error"; read-only sessions answer 409 with their unchanged state.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	text, status, err := readText(w, r, s.opts.MaxBodyBytes)
	if err != nil {
		writeError(w, status, err)
		return
	}

	st, err := sess.Edit(r.Context(), text)
	switch {
	case errors.Is(err, session.ErrReadOnly):
		writeJSON(w, http.StatusConflict, newStateResponse(st))
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusGone, err)
	case err != nil:
		if r.Context().Err() != nil {
			return
		}
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, newStateResponse(st))
	}
}

// handleShare returns the share URL for the session's current document.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	st, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusGone, err)
		return
	}

	token := s.opts.Codec.Encode(st.Document)
	writeJSON(w, http.StatusOK, shareResponse{
		URL:   share.URL(s.origin(r), token),
		Token: string(token),
	})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Manager.Close(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFault forwards a browser-side uncaught error to the session's
// fault reporter.
func (s *Server) handleFault(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail, status, err := readText(w, r, maxFaultBytes)
	if err != nil {
		writeError(w, status, err)
		return
	}
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = "unknown client error"
	}

	if !s.opts.Hook.Report(id, detail) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", session.ErrNotFound, id))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
