package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-mdpages/internal/assets"
	"github.com/alnah/go-mdpages/internal/export"
	"github.com/alnah/go-mdpages/internal/fault"
	"github.com/alnah/go-mdpages/internal/session"
	"github.com/alnah/go-mdpages/internal/share"
)

// DefaultMaxBodyBytes limits document uploads.
const DefaultMaxBodyBytes = 1 << 20

// maxFaultBytes limits client fault reports.
const maxFaultBytes = 8 << 10

// Pipeline is the render surface the server needs outside sessions.
type Pipeline interface {
	session.Renderer
	HighlightCSS(ctx context.Context) (string, error)
	Ready() bool
}

// Exporter prints documents to PDF.
type Exporter interface {
	Export(ctx context.Context, doc export.Document) ([]byte, error)
}

// Options configures a Server.
type Options struct {
	Manager  *session.Manager
	Hook     *fault.Hook
	Pipeline Pipeline
	Codec    share.Codec
	Assets   *assets.Bundle
	// Exporter is nil when PDF export is disabled.
	Exporter Exporter
	// BaseURL is the origin used in share URLs; empty derives it from the request.
	BaseURL      string
	KatexCSS     string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Server routes HTTP requests to sessions and the render pipeline.
type Server struct {
	opts   Options
	logger *slog.Logger
	router chi.Router
}

// New creates a Server with its routes mounted.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Hook == nil {
		opts.Hook = fault.NewHook(opts.Logger)
	}

	s := &Server{opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)
	r.Use(securityHeaders)
	r.Use(headToGet)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/assets/style.css", s.handleStyle)
	r.Get("/assets/highlight.css", s.handleHighlightCSS)
	r.Get("/export.pdf", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Delete("/", s.handleClose)
			r.Post("/content", s.handleContent)
			r.Post("/share", s.handleShare)
		})
		r.Post("/faults/{id}", s.handleFault)
	})

	return r
}
