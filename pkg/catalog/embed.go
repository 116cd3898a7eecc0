package catalog

import (
	"embed"
	"io/fs"
	"sync"
)

//go:embed templates
var embeddedTemplates embed.FS

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// EmbeddedFS returns the bundled manifests and templates.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default returns the store built from EmbeddedFS. It is loaded once.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore = MustLoadFS(EmbeddedFS())
	})
	return defaultStore
}
