package catalog

import (
	"errors"
	"strings"
)

// Protocol identifies a template family.
type Protocol string

const (
	ProtocolSDK  Protocol = "SDK"
	ProtocolREST Protocol = "REST"
)

// ErrUnknownProtocol is returned when a manifest declares a protocol other than
// SDK or REST.
var ErrUnknownProtocol = errors.New("catalog: unknown protocol")

// ParseProtocol normalises user input ("sdk", "Rest") into a Protocol.
func ParseProtocol(raw string) (Protocol, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ProtocolSDK):
		return ProtocolSDK, nil
	case string(ProtocolREST):
		return ProtocolREST, nil
	default:
		return "", ErrUnknownProtocol
	}
}

// DefaultLanguage reports the language selected when switching to p.
func (p Protocol) DefaultLanguage() string {
	if p == ProtocolREST {
		return "cURL"
	}
	return "Go"
}

// SnippetKind names a template inside an entry.
type SnippetKind string

const (
	KindProducer SnippetKind = "producer"
	KindConsumer SnippetKind = "consumer"
	KindToken    SnippetKind = "token"
)

// Docs points at external documentation for languages without an inline
// example. Description is sanitized HTML.
type Docs struct {
	Link        string `json:"link"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Entry is a single row of the template table.
type Entry struct {
	Protocol     Protocol
	Name         string
	LangCode     string
	Installation string
	Docs         *Docs
	Templates    map[SnippetKind]string
	// Source records the manifest the entry was declared in.
	Source string
}

// DocsOnly reports whether the entry only links to documentation.
func (e Entry) DocsOnly() bool {
	return e.Docs != nil && strings.TrimSpace(e.Docs.Link) != ""
}

// Template returns the raw template for kind.
func (e Entry) Template(kind SnippetKind) (string, bool) {
	if len(e.Templates) == 0 {
		return "", false
	}
	tpl, ok := e.Templates[kind]
	return tpl, ok
}

// Store is an immutable, loaded template table.
type Store struct {
	entries map[Protocol]map[string]Entry
	order   map[Protocol][]string
}

// Lookup returns the entry for the protocol/language pair. Language matching is
// case-insensitive.
func (s *Store) Lookup(protocol Protocol, language string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	byLang, ok := s.entries[protocol]
	if !ok {
		return Entry{}, false
	}
	entry, ok := byLang[languageKey(language)]
	return entry, ok
}

// Languages lists language names for protocol in manifest order.
func (s *Store) Languages(protocol Protocol) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order[protocol]...)
}

// Protocols lists the protocols present in the store.
func (s *Store) Protocols() []Protocol {
	if s == nil {
		return nil
	}
	out := make([]Protocol, 0, 2)
	for _, p := range []Protocol{ProtocolSDK, ProtocolREST} {
		if len(s.order[p]) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the number of entries across protocols.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, byLang := range s.entries {
		total += len(byLang)
	}
	return total
}

// Empty reports whether the store holds any entries.
func (s *Store) Empty() bool {
	return s.Len() == 0
}

func languageKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
