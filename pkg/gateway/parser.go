package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Parse loads an OpenAPI document and collects its operations into a Catalog.
func Parse(ctx context.Context, raw []byte) (Catalog, error) {
	if err := ctx.Err(); err != nil {
		return Catalog{}, err
	}
	if len(raw) == 0 {
		return Catalog{}, errors.New("gateway: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Catalog{}, fmt.Errorf("gateway: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Catalog{}, fmt.Errorf("gateway: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return Catalog{}, errors.New("gateway: document does not contain any paths")
	}

	var endpoints []Endpoint
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			endpoints = append(endpoints, Endpoint{ID: op.OperationID, Path: path})
		}
	}
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].ID < endpoints[j].ID })

	return NewCatalog(endpoints)
}
