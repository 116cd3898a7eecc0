package render

import (
	"context"

	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// Renderer converts rendered snippets into a byte representation (plain text,
// Markdown, JSON, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, output snippet.Output, options RenderOptions) ([]byte, error)
}
