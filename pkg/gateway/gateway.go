package gateway

import (
	"errors"
	"strings"
)

// Operation ids the snippet templates rely on.
const (
	OperationAuthenticate = "authenticate"
	OperationProduce      = "produceSingle"
)

// StationParam is the path parameter substituted with the station name.
const StationParam = "{stationName}"

// ErrMissingOperation is returned when a document lacks an operation required
// by the REST templates.
var ErrMissingOperation = errors.New("gateway: required operation missing")

// Endpoint is a single gateway route.
type Endpoint struct {
	ID   string
	Path string
}

// Catalog indexes gateway endpoints by operation id.
type Catalog struct {
	endpoints map[string]Endpoint
}

// NewCatalog builds a catalog and checks that every operation the templates
// need is present.
func NewCatalog(endpoints []Endpoint) (Catalog, error) {
	cat := Catalog{endpoints: make(map[string]Endpoint, len(endpoints))}
	for _, ep := range endpoints {
		id := strings.TrimSpace(ep.ID)
		if id == "" {
			continue
		}
		cat.endpoints[id] = ep
	}
	for _, required := range []string{OperationAuthenticate, OperationProduce} {
		if _, ok := cat.endpoints[required]; !ok {
			return Catalog{}, errors.Join(ErrMissingOperation, errors.New("gateway: "+required))
		}
	}
	return cat, nil
}

// Paths resolves the request paths used by the REST templates for station.
// The station value is inserted verbatim, so hint text such as
// "<station-name>" survives into the rendered URL.
func (c Catalog) Paths(station string) map[string]string {
	resolve := func(id string) string {
		ep, ok := c.endpoints[id]
		if !ok {
			return ""
		}
		return strings.ReplaceAll(ep.Path, StationParam, station)
	}
	return map[string]string{
		"authenticate": resolve(OperationAuthenticate),
		"produce":      resolve(OperationProduce),
	}
}
