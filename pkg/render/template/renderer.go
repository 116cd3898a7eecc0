package template

import (
	"io"
)

// TemplateRenderer is the seam snippet rendering relies on. Implementations
// compile template content, execute it against slot data and optionally copy
// the result to additional writers.
type TemplateRenderer interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
