// Package web provides the embedded web form for the taxamatch server.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var distFS embed.FS

// DistFS returns the embedded assets as a filesystem. The returned FS has
// "dist" as the root, so files are accessed directly (e.g., "index.html"
// not "dist/index.html").
func DistFS() (fs.FS, error) {
	return fs.Sub(distFS, "dist")
}
