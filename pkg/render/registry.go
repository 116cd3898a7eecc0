package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned by Registry.Get for names that match neither a
// renderer nor an alias.
var ErrUnknownFormat = errors.New("render: unknown format")

// Registry maps output format names (and aliases such as "md") to renderers.
// Lookups are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	aliases   map[string]string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		aliases:   make(map[string]string),
	}
}

func normalizeFormat(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a renderer under its Name() plus any aliases.
func (r *Registry) Register(renderer Renderer, aliases ...string) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := normalizeFormat(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(name) {
		return fmt.Errorf("render: format %q already registered", name)
	}
	for _, alias := range aliases {
		if alias = normalizeFormat(alias); alias == "" || alias == name || r.taken(alias) {
			return fmt.Errorf("render: alias %q for %q is unavailable", alias, name)
		}
	}

	r.renderers[name] = renderer
	for _, alias := range aliases {
		r.aliases[normalizeFormat(alias)] = name
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, renderer := r.renderers[name]
	_, alias := r.aliases[name]
	return renderer || alias
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer, aliases ...string) {
	if err := r.Register(renderer, aliases...); err != nil {
		panic(err)
	}
}

// Get resolves a format name or alias.
func (r *Registry) Get(name string) (Renderer, error) {
	key := normalizeFormat(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	if renderer, ok := r.renderers[key]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, name, strings.Join(r.names(), ", "))
}

// List returns the sorted canonical format names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDefaultRegistry returns a registry holding the text, markdown and json
// renderers.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(TextRenderer{}, "txt", "plain")
	registry.MustRegister(MarkdownRenderer{}, "md")
	registry.MustRegister(JSONRenderer{})
	return registry
}
