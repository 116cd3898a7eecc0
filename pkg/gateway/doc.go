// Package gateway describes the REST gateway endpoints referenced by REST
// snippets. The endpoint table is read from an OpenAPI document (an embedded
// copy by default) so snippet templates never hard-code request paths.
package gateway
