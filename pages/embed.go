// Package pages embeds the HTML templates and static assets served by the site.
package pages

import (
	"embed"
	"io/fs"
)

//go:embed *.html partials/*.html static
var files embed.FS

// Templates returns the page and partial templates.
func Templates() fs.FS {
	return files
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
