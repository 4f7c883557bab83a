// Package web embeds the HTML templates and static assets of the site.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates holds templates/ with its directory prefix kept, as view.New expects.
func Templates() fs.FS {
	return files
}

// Static returns the static assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
