package snippet

import (
	"fmt"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/gateway"
	"github.com/goliatone/go-snippetgen/pkg/render/template"
	"github.com/goliatone/go-snippetgen/pkg/render/template/gotemplate"
)

// Catalog is the read side of the template table.
type Catalog interface {
	Lookup(protocol catalog.Protocol, language string) (catalog.Entry, bool)
}

// Endpoints resolves REST gateway paths for a station.
type Endpoints interface {
	Paths(station string) map[string]string
}

// Renderer turns a Request into Output. It holds no per-request state and is
// safe for concurrent use.
type Renderer struct {
	catalog   Catalog
	endpoints Endpoints
	engine    template.TemplateRenderer
}

// New builds a Renderer. Unset collaborators default to the embedded catalog,
// the embedded gateway document and a pongo2 engine.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.catalog == nil {
		r.catalog = catalog.Default()
	}
	if r.endpoints == nil {
		endpoints, err := gateway.Default()
		if err != nil {
			return nil, fmt.Errorf("snippet: load gateway endpoints: %w", err)
		}
		r.endpoints = endpoints
	}
	if r.engine == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("snippet: template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// MustNew panics when New fails.
func MustNew(opts ...Option) *Renderer {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Render produces the snippets for req. User input never causes an error; a
// non-nil error means a catalog template failed to parse or execute.
func (r *Renderer) Render(req Request) (Output, error) {
	req = normalize(req)

	entry, ok := r.catalog.Lookup(req.Protocol, req.Language)
	if !ok {
		return Output{DocsOnly: true}, nil
	}

	out := Output{
		LangCode:     entry.LangCode,
		Installation: entry.Installation,
	}
	if entry.DocsOnly() {
		docs := *entry.Docs
		out.DocsOnly = true
		out.Docs = &docs
		return out, nil
	}

	capability, _ := CapabilityFor(req.Protocol, entry.Name)
	slots := BuildSlots(req, capability, r.endpoints.Paths(hintIfEmpty(req.Target.Station, HintStation)))

	var err error
	switch req.Protocol {
	case catalog.ProtocolREST:
		if out.Token, err = r.execute(entry, catalog.KindToken, slots); err != nil {
			return Output{}, err
		}
		if req.Scenario == ScenarioConsume {
			out.ComingSoon = true
			return out, nil
		}
		if out.Producer, err = r.execute(entry, catalog.KindProducer, slots); err != nil {
			return Output{}, err
		}
	default:
		if req.Scenario == ScenarioConsume {
			out.Consumer, err = r.execute(entry, catalog.KindConsumer, slots)
		} else {
			out.Producer, err = r.execute(entry, catalog.KindProducer, slots)
		}
		if err != nil {
			return Output{}, err
		}
	}
	return out, nil
}

func (r *Renderer) execute(entry catalog.Entry, kind catalog.SnippetKind, slots Slots) (string, error) {
	tpl, ok := entry.Template(kind)
	if !ok || tpl == "" {
		return "", nil
	}
	text, err := r.engine.RenderString(tpl, map[string]any(slots))
	if err != nil {
		return "", fmt.Errorf("snippet: render %s %s %s: %w", entry.Protocol, entry.Name, kind, err)
	}
	return text, nil
}
