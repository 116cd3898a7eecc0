package gotemplate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-snippetgen/pkg/render/template"
)

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	templates  fs.FS
	extension  string
	autoescape bool
	globalData map[string]any
}

// WithFS loads named templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the extension appended to named templates.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithAutoescape toggles HTML escaping of variable output. Source code
// snippets must be rendered verbatim, so the default is off.
func WithAutoescape(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoescape = enabled
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// emptyFS backs the template set when no loader source is configured;
// pongo2 requires at least one loader.
var emptyFS embed.FS

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
// Compiled templates are cached by name and by content, so repeated renders of
// the same snippet only pay for execution.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	files       fs.FS
	named       map[string]*pongo2.Template
	inline      map[string]*pongo2.Template
	tplExt      string
	autoescape  bool
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. Without WithFS the engine only renders inline
// template content.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loader pongo2.TemplateLoader = pongo2.NewFSLoader(emptyFS)
	if cfg.templates != nil {
		loader = pongo2.NewFSLoader(cfg.templates)
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("snippetgen", loader),
		files:       cfg.templates,
		named:       make(map[string]*pongo2.Template),
		inline:      make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
		autoescape:  cfg.autoescape,
	}

	if len(cfg.globalData) > 0 {
		globals, err := convertToContext(cfg.globalData)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
		}
		if engine.templateSet.Globals == nil {
			engine.templateSet.Globals = make(pongo2.Context)
		}
		engine.templateSet.Globals.Update(globals)
	}

	return engine, nil
}

// RenderTemplate executes a named template from the configured filesystem.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if e.files == nil {
		return "", fmt.Errorf("gotemplate: no template source configured for %q", name)
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.namedTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, templatePath, data, out)
}

// RenderString compiles (or reuses) inline template content and executes it.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.inlineTemplate(templateContent)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, "inline", data, out)
}

// Reset drops every compiled template and reports how many were held.
func (e *Engine) Reset() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.named) + len(e.inline)
	e.named = make(map[string]*pongo2.Template)
	e.inline = make(map[string]*pongo2.Template)
	return n
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer

	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()

	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) namedTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.named[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	content, err := fs.ReadFile(e.files, path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.named[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromString(e.wrap(string(content)))
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template %q: %w", path, err)
	}
	e.named[path] = tmpl
	return tmpl, nil
}

func (e *Engine) inlineTemplate(content string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.inline[content]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.inline[content]; ok {
		return tmpl, nil
	}
	tmpl, err := e.templateSet.FromString(e.wrap(content))
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	e.inline[content] = tmpl
	return tmpl, nil
}

// wrap disables escaping for the whole template body. The tags emit nothing,
// so the rendered output is byte-for-byte the template text.
func (e *Engine) wrap(content string) string {
	if e.autoescape {
		return content
	}
	return "{% autoescape off %}" + content + "{% endautoescape %}"
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return convertMapToContext(map[string]any(v))
	case map[string]any:
		return convertMapToContext(v)
	default:
		m, err := jsonToMap(v)
		if err != nil {
			return nil, err
		}
		return convertMapToContext(m)
	}
}

func convertMapToContext(in map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

// convertValue passes scalar slot values straight through and normalises
// anything else via a JSON round trip.
func convertValue(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case string, bool, int, int64, float64:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out, nil
	case pongo2.Context:
		return convertMap(map[string]any(v))
	case map[string]any:
		return convertMap(v)
	case []any:
		return convertSlice(v)
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		switch decoded := raw.(type) {
		case map[string]any:
			return convertMap(decoded)
		case []any:
			return convertSlice(decoded)
		default:
			return decoded, nil
		}
	}
}

func convertMap(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for key, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

func convertSlice(in []any) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, value := range in {
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
