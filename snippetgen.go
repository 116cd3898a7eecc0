// Package snippetgen renders ready-to-paste code examples that connect to a
// Memphis broker, for the SDK libraries and the REST gateway.
package snippetgen

import (
	"context"
	"io/fs"
	"sync"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/render"
	"github.com/goliatone/go-snippetgen/pkg/render/template"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// Request is the full input of a render; alias exported via the root package
// for convenience.
type Request = snippet.Request

// Output is a rendered example.
type Output = snippet.Output

// RenderOptions tunes output formatting.
type RenderOptions = render.RenderOptions

// NewRenderer exposes the renderer constructor from the top-level module.
func NewRenderer(options ...snippet.Option) (*snippet.Renderer, error) {
	return snippet.New(options...)
}

// WithCatalog swaps the template table.
func WithCatalog(c snippet.Catalog) snippet.Option {
	return snippet.WithCatalog(c)
}

// WithTemplatesFS loads the template table from fsys. Manifests are found
// anywhere in the tree (see catalog.ManifestPattern).
func WithTemplatesFS(fsys fs.FS) (snippet.Option, error) {
	store, err := catalog.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return snippet.WithCatalog(store), nil
}

// WithTemplateRenderer injects the template engine used to execute entries.
func WithTemplateRenderer(engine template.TemplateRenderer) snippet.Option {
	return snippet.WithTemplateRenderer(engine)
}

var defaultRenderer = sync.OnceValues(func() (*snippet.Renderer, error) {
	return snippet.New()
})

// Render renders req with the built-in catalog.
func Render(req Request) (Output, error) {
	r, err := defaultRenderer()
	if err != nil {
		return Output{}, err
	}
	return r.Render(req)
}

// Format renders req and formats it as text, markdown or json.
func Format(ctx context.Context, req Request, format string) ([]byte, error) {
	formatter, err := render.NewDefaultRegistry().Get(format)
	if err != nil {
		return nil, err
	}
	out, err := Render(req)
	if err != nil {
		return nil, err
	}
	return formatter.Render(ctx, out, RenderOptions{
		Language: req.Language,
		Protocol: string(req.Protocol),
		Scenario: string(req.Scenario),
	})
}

// Languages lists the built-in languages for protocol in display order.
func Languages(protocol catalog.Protocol) []string {
	return catalog.Default().Languages(protocol)
}

// EmbeddedTemplates exposes the built-in template tree so callers can copy
// and extend it for --templates-dir overrides.
func EmbeddedTemplates() fs.FS {
	return catalog.EmbeddedFS()
}
