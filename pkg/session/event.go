package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// Event ops understood by Apply.
const (
	OpProtocol     = "protocol"
	OpLanguage     = "language"
	OpScenario     = "scenario"
	OpSet          = "set"
	OpHeaderKey    = "header_key"
	OpHeaderValue  = "header_value"
	OpHeaderAdd    = "header_add"
	OpHeaderRemove = "header_remove"
)

// ErrUnknownOp is returned by Apply for unsupported ops.
var ErrUnknownOp = errors.New("session: unknown op")

// Event is a single UI edit, as sent by the console websocket, e.g.
// {"op":"set","field":"async","value":false}.
type Event struct {
	Op    string `json:"op"`
	Field string `json:"field,omitempty"`
	Index int    `json:"index,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Apply dispatches ev to the matching mutation.
func (s *Session) Apply(ev Event) error {
	switch strings.ToLower(strings.TrimSpace(ev.Op)) {
	case OpProtocol:
		protocol, err := catalog.ParseProtocol(asString(ev.Value))
		if err != nil {
			return err
		}
		return s.SelectProtocol(protocol)
	case OpLanguage:
		return s.SelectLanguage(asString(ev.Value))
	case OpScenario:
		return s.SelectScenario(snippet.ParseScenario(asString(ev.Value)))
	case OpSet:
		return s.SetField(ev.Field, ev.Value)
	case OpHeaderKey:
		return s.UpdateHeaderKey(ev.Index, asString(ev.Value))
	case OpHeaderValue:
		return s.UpdateHeaderValue(ev.Index, asString(ev.Value))
	case OpHeaderAdd:
		return s.AddHeader()
	case OpHeaderRemove:
		return s.RemoveHeader(ev.Index)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, ev.Op)
	}
}
