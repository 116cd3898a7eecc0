// Package catalog loads the template table that backs snippet rendering. Each
// entry is keyed by protocol and language and carries the raw template strings
// for the snippets that language supports, plus display metadata (editor
// language code, installation command, documentation link).
//
// Catalogs are described by catalog.yaml manifests discovered anywhere inside
// an fs.FS. The bundled manifests live under templates/ and are exposed via
// EmbeddedFS.
package catalog
