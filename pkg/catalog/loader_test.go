package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/testsupport"
)

const sdkManifest = `
protocol: sdk
languages:
  - name: Go
    langCode: go
    installation: "  go get example.com/client  "
    templates:
      producer: go/producer.tpl
      consumer: go/consumer.tpl
  - name: Rust
    langCode: rust
    docs:
      link: https://example.com/rust
      title: Rust
      description: See <b>README</b><script>alert(1)</script>
`

func TestLoadFS_BuildsStore(t *testing.T) {
	store := testsupport.MustLoadCatalog(t, map[string]string{
		"sdk/catalog.yaml":     sdkManifest,
		"sdk/go/producer.tpl":  "produce {{ station }}",
		"sdk/go/consumer.tpl":  "consume {{ station }}",
		"rest/catalog.json":    `{"protocol": "REST", "languages": [{"name": "cURL", "langCode": "shell", "templates": {"token": "curl/token.tpl"}}]}`,
		"rest/curl/token.tpl":  "curl {{ host }}",
		"unrelated/readme.txt": "ignored",
	})

	if store.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", store.Len())
	}
	if diff := cmp.Diff([]catalog.Protocol{catalog.ProtocolSDK, catalog.ProtocolREST}, store.Protocols()); diff != "" {
		t.Fatalf("protocols mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Go", "Rust"}, store.Languages(catalog.ProtocolSDK)); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}

	entry, ok := store.Lookup(catalog.ProtocolSDK, " go ")
	if !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	want := catalog.Entry{
		Protocol:     catalog.ProtocolSDK,
		Name:         "Go",
		LangCode:     "go",
		Installation: "go get example.com/client",
		Templates: map[catalog.SnippetKind]string{
			catalog.KindProducer: "produce {{ station }}",
			catalog.KindConsumer: "consume {{ station }}",
		},
		Source: "sdk/catalog.yaml",
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}

	rust, ok := store.Lookup(catalog.ProtocolSDK, "Rust")
	if !ok || !rust.DocsOnly() {
		t.Fatalf("expected docs-only Rust entry, got %+v", rust)
	}
	if strings.Contains(rust.Docs.Description, "script") || !strings.Contains(rust.Docs.Description, "<b>README</b>") {
		t.Fatalf("unexpected sanitized description %q", rust.Docs.Description)
	}

	if _, ok := store.Lookup(catalog.ProtocolREST, "Go"); ok {
		t.Fatalf("expected miss for REST/Go")
	}
	if tpl, ok := mustLookup(t, store, catalog.ProtocolREST, "curl").Template(catalog.KindToken); !ok || tpl != "curl {{ host }}" {
		t.Fatalf("unexpected token template %q", tpl)
	}
}

func mustLookup(t *testing.T, store *catalog.Store, p catalog.Protocol, lang string) catalog.Entry {
	t.Helper()
	entry, ok := store.Lookup(p, lang)
	if !ok {
		t.Fatalf("lookup %s/%s failed", p, lang)
	}
	return entry
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown protocol": {
			"catalog.yaml": "protocol: grpc\nlanguages: []\n",
		},
		"missing template file": {
			"catalog.yaml": "protocol: SDK\nlanguages:\n  - name: Go\n    templates:\n      producer: missing.tpl\n",
		},
		"token kind on sdk": {
			"catalog.yaml": "protocol: SDK\nlanguages:\n  - name: Go\n    templates:\n      token: t.tpl\n",
			"t.tpl":        "x",
		},
		"neither templates nor docs": {
			"catalog.yaml": "protocol: REST\nlanguages:\n  - name: cURL\n",
		},
		"duplicate language": {
			"a/catalog.yaml": "protocol: SDK\nlanguages:\n  - name: Go\n    docs: {link: \"https://a\"}\n",
			"b/catalog.yml":  "protocol: SDK\nlanguages:\n  - name: go\n    docs: {link: \"https://b\"}\n",
		},
		"empty manifest": {
			"catalog.yaml": "  \n",
		},
	}

	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := catalog.LoadFS(testsupport.MapFS(files)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_UnknownProtocolIsSentinel(t *testing.T) {
	_, err := catalog.LoadFS(testsupport.MapFS(map[string]string{
		"catalog.yaml": "protocol: mqtt\n",
	}))
	if !errors.Is(err, catalog.ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	store, err := catalog.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
}

func TestDefault_EmbeddedCatalog(t *testing.T) {
	store := catalog.Default()

	wantSDK := []string{"Go", "Python", "Node.js", "TypeScript", ".NET (C#)", "NestJS", "Rust", "Java"}
	if diff := cmp.Diff(wantSDK, store.Languages(catalog.ProtocolSDK)); diff != "" {
		t.Fatalf("SDK languages mismatch (-want +got):\n%s", diff)
	}
	wantREST := []string{"cURL", "Go", "Node.js", "Python", "Java", "JavaScript - jQuery", "JavaScript - Fetch"}
	if diff := cmp.Diff(wantREST, store.Languages(catalog.ProtocolREST)); diff != "" {
		t.Fatalf("REST languages mismatch (-want +got):\n%s", diff)
	}

	for _, protocol := range store.Protocols() {
		for _, name := range store.Languages(protocol) {
			entry := mustLookup(t, store, protocol, name)
			if entry.LangCode == "" {
				t.Fatalf("%s/%s: missing lang code", protocol, name)
			}
			if entry.DocsOnly() {
				continue
			}
			if _, ok := entry.Template(catalog.KindProducer); !ok {
				t.Fatalf("%s/%s: missing producer template", protocol, name)
			}
		}
	}
}

func TestParseProtocol(t *testing.T) {
	for raw, want := range map[string]catalog.Protocol{"sdk": catalog.ProtocolSDK, " Rest ": catalog.ProtocolREST} {
		got, err := catalog.ParseProtocol(raw)
		if err != nil || got != want {
			t.Fatalf("ParseProtocol(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := catalog.ParseProtocol("graphql"); !errors.Is(err, catalog.ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
	if catalog.ProtocolREST.DefaultLanguage() != "cURL" || catalog.ProtocolSDK.DefaultLanguage() != "Go" {
		t.Fatalf("unexpected default languages")
	}
}
