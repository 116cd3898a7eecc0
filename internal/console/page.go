package console

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-snippetgen/internal/version"
	"github.com/goliatone/go-snippetgen/pkg/render/template/gotemplate"
)

//go:embed templates/*.html
var pageFiles embed.FS

const pageName = "page"

// newPageEngine loads the console page templates. Output is HTML, so
// autoescape is on and trusted fragments are marked with |safe.
func newPageEngine() (*gotemplate.Engine, error) {
	files, err := fs.Sub(pageFiles, "templates")
	if err != nil {
		return nil, err
	}
	return gotemplate.New(
		gotemplate.WithFS(files),
		gotemplate.WithExtension(".html"),
		gotemplate.WithAutoescape(true),
		gotemplate.WithGlobalData(map[string]any{"version": version.Full()}),
	)
}
