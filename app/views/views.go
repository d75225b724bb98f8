// Package views holds the HTML templates and static assets compiled into the
// binary.
package views

import (
	"embed"
	"io/fs"
)

//go:embed layout.html posts auth shared static
var files embed.FS

// Templates returns the template tree rooted at the views directory.
func Templates() fs.FS {
	return files
}

// Static returns the static asset tree.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
