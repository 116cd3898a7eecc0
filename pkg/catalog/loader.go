package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ManifestPattern matches catalog manifests at any depth.
const ManifestPattern = "**/catalog.{yaml,yml,json}"

type manifestFile struct {
	Protocol  string          `json:"protocol" yaml:"protocol"`
	Languages []languageEntry `json:"languages" yaml:"languages"`
}

type languageEntry struct {
	Name         string            `json:"name" yaml:"name"`
	LangCode     string            `json:"langCode" yaml:"langCode"`
	Installation string            `json:"installation" yaml:"installation"`
	Docs         *Docs             `json:"docs" yaml:"docs"`
	Templates    map[string]string `json:"templates" yaml:"templates"`
}

// LoadFS discovers every manifest in fsys and builds a Store. Template paths in
// a manifest are resolved relative to the manifest's directory. When fsys is
// nil or holds no manifests the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		entries: make(map[Protocol]map[string]Entry),
		order:   make(map[Protocol][]string),
	}
	if fsys == nil {
		return store, nil
	}

	manifests, err := doublestar.Glob(fsys, ManifestPattern)
	if err != nil {
		return nil, fmt.Errorf("catalog: glob manifests: %w", err)
	}
	sort.Strings(manifests)

	for _, manifestPath := range manifests {
		data, err := fs.ReadFile(fsys, manifestPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", manifestPath, err)
		}

		doc, err := parseManifest(data, manifestPath)
		if err != nil {
			return nil, err
		}

		protocol, err := ParseProtocol(doc.Protocol)
		if err != nil {
			return nil, fmt.Errorf("catalog: manifest %s protocol %q: %w", manifestPath, doc.Protocol, err)
		}

		for idx, raw := range doc.Languages {
			entry, err := normaliseEntry(fsys, manifestPath, protocol, raw)
			if err != nil {
				return nil, fmt.Errorf("catalog: manifest %s language #%d: %w", manifestPath, idx, err)
			}
			if err := store.add(entry); err != nil {
				return nil, err
			}
		}
	}

	return store, nil
}

// MustLoadFS panics when LoadFS fails. Useful for the embedded catalog.
func MustLoadFS(fsys fs.FS) *Store {
	store, err := LoadFS(fsys)
	if err != nil {
		panic(err)
	}
	return store
}

func (s *Store) add(entry Entry) error {
	key := languageKey(entry.Name)
	byLang, ok := s.entries[entry.Protocol]
	if !ok {
		byLang = make(map[string]Entry)
		s.entries[entry.Protocol] = byLang
	}
	if existing, dup := byLang[key]; dup {
		return fmt.Errorf("catalog: duplicate %s language %q (%s and %s)", entry.Protocol, entry.Name, existing.Source, entry.Source)
	}
	byLang[key] = entry
	s.order[entry.Protocol] = append(s.order[entry.Protocol], entry.Name)
	return nil
}

func parseManifest(data []byte, source string) (manifestFile, error) {
	var doc manifestFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return manifestFile{}, fmt.Errorf("catalog: manifest %s is empty", source)
	}

	if strings.HasSuffix(source, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return manifestFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return manifestFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseEntry(fsys fs.FS, manifestPath string, protocol Protocol, raw languageEntry) (Entry, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Entry{}, fmt.Errorf("language name is required")
	}

	entry := Entry{
		Protocol:     protocol,
		Name:         name,
		LangCode:     strings.TrimSpace(raw.LangCode),
		Installation: strings.TrimSpace(raw.Installation),
		Source:       manifestPath,
	}

	if raw.Docs != nil && strings.TrimSpace(raw.Docs.Link) != "" {
		entry.Docs = &Docs{
			Link:        strings.TrimSpace(raw.Docs.Link),
			Title:       strings.TrimSpace(raw.Docs.Title),
			Description: sanitizeDescription(raw.Docs.Description),
		}
	}

	if len(raw.Templates) == 0 {
		if !entry.DocsOnly() {
			return Entry{}, fmt.Errorf("language %q declares neither templates nor docs", name)
		}
		return entry, nil
	}

	base := path.Dir(manifestPath)
	entry.Templates = make(map[SnippetKind]string, len(raw.Templates))
	for kind, rel := range raw.Templates {
		snippetKind, err := parseKind(protocol, kind)
		if err != nil {
			return Entry{}, fmt.Errorf("language %q: %w", name, err)
		}
		tplPath := path.Join(base, strings.TrimSpace(rel))
		content, err := fs.ReadFile(fsys, tplPath)
		if err != nil {
			return Entry{}, fmt.Errorf("language %q: read template %s: %w", name, tplPath, err)
		}
		entry.Templates[snippetKind] = string(content)
	}

	return entry, nil
}

func parseKind(protocol Protocol, raw string) (SnippetKind, error) {
	kind := SnippetKind(strings.ToLower(strings.TrimSpace(raw)))
	switch {
	case kind == KindProducer:
		return kind, nil
	case kind == KindConsumer && protocol == ProtocolSDK:
		return kind, nil
	case kind == KindToken && protocol == ProtocolREST:
		return kind, nil
	default:
		return "", fmt.Errorf("template kind %q is not valid for %s", raw, protocol)
	}
}
