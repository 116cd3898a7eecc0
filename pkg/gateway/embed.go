package gateway

import (
	"context"
	_ "embed"
	"sync"
)

//go:embed spec/openapi.yaml
var embeddedSpec []byte

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// EmbeddedSpec returns a copy of the bundled gateway OpenAPI document.
func EmbeddedSpec() []byte {
	return append([]byte(nil), embeddedSpec...)
}

// Default returns the catalog parsed from the embedded document.
func Default() (Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(context.Background(), embeddedSpec)
	})
	return defaultCatalog, defaultErr
}

// MustDefault panics when the embedded document cannot be parsed.
func MustDefault() Catalog {
	cat, err := Default()
	if err != nil {
		panic(err)
	}
	return cat
}
