package snippet

import (
	"github.com/goliatone/go-snippetgen/pkg/render/template"
)

// Option customises a Renderer.
type Option func(*Renderer)

// WithCatalog swaps the template table. Useful for directory overrides and
// hot reloading wrappers.
func WithCatalog(c Catalog) Option {
	return func(r *Renderer) {
		if c != nil {
			r.catalog = c
		}
	}
}

// WithEndpoints overrides the REST gateway endpoint catalog.
func WithEndpoints(e Endpoints) Option {
	return func(r *Renderer) {
		if e != nil {
			r.endpoints = e
		}
	}
}

// WithTemplateRenderer injects the template engine used to execute entries.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}
