package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// chiRouterWithPanic mounts a panicking {id} route behind the server's
// recovery middleware.
func chiRouterWithPanic(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverPanics)
	r.Get("/explode/{id}", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	return r
}
