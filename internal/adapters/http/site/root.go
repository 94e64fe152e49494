// Package site serves the embedded organizer dashboard.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("dashboard serve failed")
)

// Register attaches the embedded dashboard routes to mux. The dashboard
// lives at / and polls the read API for the live leaderboard.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("/{$}", files)
	mux.Handle("/static/", http.StripPrefix("/static/", files))
}
