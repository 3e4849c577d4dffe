package templates

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed *.html
var files embed.FS

//go:embed static
var static embed.FS

func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}

// Static holds the stylesheet and the small script behind the live search
// and the like/bookmark toggles.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
