package render

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// TextRenderer prints sections separated by titled rules. Code is emitted
// verbatim so the result can be piped into a file.
type TextRenderer struct{}

func (TextRenderer) Name() string        { return "text" }
func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(_ context.Context, output snippet.Output, options RenderOptions) ([]byte, error) {
	var b strings.Builder
	if output.DocsOnly {
		writeDocsNotice(&b, output, options)
		return []byte(b.String()), nil
	}

	if options.Installation && output.Installation != "" {
		fmt.Fprintf(&b, "# Installation\n%s\n\n", output.Installation)
	}
	for idx, section := range output.Sections() {
		if idx > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n%s", section.Title, ensureTrailingNewline(section.Text))
	}
	if output.ComingSoon {
		b.WriteString("\n# Consume data\nComing soon.\n")
	}
	return []byte(b.String()), nil
}

// MarkdownRenderer wraps each section in a fenced block tagged with the
// entry's language code.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Name() string        { return "markdown" }
func (MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

func (MarkdownRenderer) Render(_ context.Context, output snippet.Output, options RenderOptions) ([]byte, error) {
	var b strings.Builder
	if options.Language != "" {
		fmt.Fprintf(&b, "## %s", options.Language)
		if options.Protocol != "" {
			fmt.Fprintf(&b, " (%s)", options.Protocol)
		}
		b.WriteString("\n\n")
	}
	if output.DocsOnly {
		writeDocsNotice(&b, output, options)
		return []byte(b.String()), nil
	}

	if options.Installation && output.Installation != "" {
		fmt.Fprintf(&b, "```shell\n%s\n```\n\n", output.Installation)
	}
	for _, section := range output.Sections() {
		fmt.Fprintf(&b, "### %s\n\n```%s\n%s```\n\n", section.Title, output.LangCode, ensureTrailingNewline(section.Text))
	}
	if output.ComingSoon {
		b.WriteString("### Consume data\n\nComing soon.\n")
	}
	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// JSONRenderer emits the Output as indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) Name() string        { return "json" }
func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(_ context.Context, output snippet.Output, _ RenderOptions) ([]byte, error) {
	payload, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: marshal output: %w", err)
	}
	return append(payload, '\n'), nil
}

func writeDocsNotice(b *strings.Builder, output snippet.Output, options RenderOptions) {
	name := options.Language
	if name == "" {
		name = "this language"
	}
	if output.Docs == nil {
		fmt.Fprintf(b, "No inline example is available for %s.\n", name)
		return
	}
	fmt.Fprintf(b, "No inline example is available for %s. See %s\n", name, output.Docs.Link)
	if output.Installation != "" && options.Installation {
		fmt.Fprintf(b, "Install: %s\n", output.Installation)
	}
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
