// Package site serves the embedded single-page simulator.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// Register serves the embedded site as the catch-all route of r, so it must be
// registered after the API routes.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	files := http.FileServer(FS())
	r.Get("/*", files.ServeHTTP)
}
