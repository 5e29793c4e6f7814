package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded site.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Should never happen: static/ is embedded at build time.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
