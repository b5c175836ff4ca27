// Package site serves the embedded front-end bundle.
package site

import (
	"context"
	"net/http"
)

// StaticPrefix is the URL prefix the bundle is served under.
const StaticPrefix = "/static/"

// IndexPath is the entry page the root path redirects to.
const IndexPath = StaticPrefix + "index.html"

// Register attaches the bundle and the root redirect to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.HandleFunc("GET /{$}", root.HandleRoot)
	mux.Handle("GET "+StaticPrefix, http.StripPrefix(StaticPrefix, http.FileServer(FS())))
}

// RootHandler handles root path requests.
type RootHandler struct {
	target string
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{target: IndexPath}
}

// HandleRoot redirects GET / to the bundle's entry page. The file server
// answers that path with a redirect to the bundle directory.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.target, http.StatusTemporaryRedirect)
}
