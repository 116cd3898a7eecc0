// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
)

// MapFS builds an in-memory filesystem from path/content pairs. Leading
// newlines are trimmed so fixtures can be written as raw string blocks.
func MapFS(files map[string]string) fstest.MapFS {
	out := make(fstest.MapFS, len(files))
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(strings.TrimPrefix(content, "\n"))}
	}
	return out
}

// MustLoadCatalog loads a catalog store from the in-memory fixture files.
func MustLoadCatalog(t *testing.T, files map[string]string) *catalog.Store {
	t.Helper()

	store, err := catalog.LoadFS(MapFS(files))
	if err != nil {
		t.Fatalf("load catalog fixture: %v", err)
	}
	return store
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
