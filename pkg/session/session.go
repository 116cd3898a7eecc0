// Package session holds the state of one code-example component instance:
// the current selection, the form, and the latest rendered output. Every
// mutation re-renders synchronously. A Session is owned by a single event loop
// (one prompt loop or one websocket connection) and is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// ErrUnknownField is returned by SetField for names the form does not have.
var ErrUnknownField = errors.New("session: unknown field")

// ErrHeaderIndex is returned when a header index is out of range.
var ErrHeaderIndex = errors.New("session: header index out of range")

// Renderer is the slice of snippet.Renderer a session needs.
type Renderer interface {
	Render(req snippet.Request) (snippet.Output, error)
}

// Observer is notified after every render.
type Observer func(req snippet.Request, out snippet.Output, elapsed time.Duration, err error)

// Option customises a Session at construction.
type Option func(*Session)

// WithEnvironment sets the connection parameters.
func WithEnvironment(env snippet.Environment) Option {
	return func(s *Session) { s.req.Env = env }
}

// WithTarget sets the station and externally provided identity.
func WithTarget(target snippet.Target) Option {
	return func(s *Session) { s.req.Target = target }
}

// WithScenario starts the session on the consume or produce example.
func WithScenario(scenario snippet.Scenario) Option {
	return func(s *Session) { s.req.Scenario = scenario }
}

// WithProtocol starts the session on protocol and its default language.
func WithProtocol(protocol catalog.Protocol) Option {
	return func(s *Session) {
		s.req.Protocol = protocol
		s.req.Language = protocol.DefaultLanguage()
	}
}

// WithLanguage starts the session on a specific language.
func WithLanguage(language string) Option {
	return func(s *Session) { s.req.Language = language }
}

// WithForm replaces the default form state.
func WithForm(form snippet.FormState) Option {
	return func(s *Session) { s.req.Form = form.Clone() }
}

// WithObserver registers a callback invoked after each render.
func WithObserver(fn Observer) Option {
	return func(s *Session) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

// Session is a component instance.
type Session struct {
	renderer  Renderer
	req       snippet.Request
	output    snippet.Output
	err       error
	observers []Observer
}

// New builds a session on the SDK/Go produce example with default form
// values and renders it once.
func New(renderer Renderer, opts ...Option) (*Session, error) {
	if renderer == nil {
		return nil, errors.New("session: renderer is required")
	}
	s := &Session{
		renderer: renderer,
		req: snippet.Request{
			Protocol: catalog.ProtocolSDK,
			Language: catalog.ProtocolSDK.DefaultLanguage(),
			Scenario: snippet.ScenarioProduce,
			Form:     snippet.DefaultFormState(),
			Env:      snippet.Environment{AuthMode: snippet.AuthToken},
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if len(s.req.Form.Headers) == 0 {
		s.req.Form.Headers = []snippet.Header{{}}
	}
	if err := s.render(); err != nil {
		return nil, err
	}
	return s, nil
}

// Output returns the latest rendered output.
func (s *Session) Output() snippet.Output { return s.output }

// Err returns the error of the latest render, if any.
func (s *Session) Err() error { return s.err }

// Request returns a copy of the current render input.
func (s *Session) Request() snippet.Request {
	req := s.req
	req.Form = s.req.Form.Clone()
	return req
}

// Form returns a copy of the form state.
func (s *Session) Form() snippet.FormState { return s.req.Form.Clone() }

// SelectProtocol switches protocol and resets the language to the protocol
// default (SDK -> Go, REST -> cURL).
func (s *Session) SelectProtocol(protocol catalog.Protocol) error {
	s.req.Protocol = protocol
	s.req.Language = protocol.DefaultLanguage()
	return s.render()
}

// SelectLanguage switches the language within the current protocol.
func (s *Session) SelectLanguage(language string) error {
	s.req.Language = strings.TrimSpace(language)
	return s.render()
}

// SelectScenario switches between the produce and consume examples.
func (s *Session) SelectScenario(scenario snippet.Scenario) error {
	s.req.Scenario = scenario
	return s.render()
}

// SetEnvironment replaces the connection parameters.
func (s *Session) SetEnvironment(env snippet.Environment) error {
	s.req.Env = env
	return s.render()
}

// SetTarget replaces the station and external identity.
func (s *Session) SetTarget(target snippet.Target) error {
	s.req.Target = target
	return s.render()
}

// Field names accepted by SetField.
const (
	FieldUsername      = "username"
	FieldPassword      = "password"
	FieldEntityName    = "entity_name"
	FieldJWT           = "jwt"
	FieldBlocking      = "blocking"
	FieldAsync         = "async"
	FieldUseHeaders    = "use_headers"
	FieldTokenExpiry   = "token_expiry"
	FieldRefreshExpiry = "refresh_expiry"
)

// SetField assigns a form field by name. String fields take any value that
// formats as text; boolean fields accept bools or "true"/"false"; expiry
// fields accept numbers or numeric text, and invalid input keeps the previous
// value.
func (s *Session) SetField(name string, value any) error {
	form := &s.req.Form
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FieldUsername:
		form.Username = asString(value)
	case FieldPassword:
		form.Password = asString(value)
	case FieldEntityName, "entity", "name":
		form.EntityName = asString(value)
	case FieldJWT:
		form.JWT = asString(value)
	case FieldBlocking:
		return s.setBool(&form.Blocking, value)
	case FieldAsync:
		return s.setBool(&form.Async, value)
	case FieldUseHeaders, "headers":
		return s.setBool(&form.UseHeaders, value)
	case FieldTokenExpiry:
		return s.setMinutes(&form.TokenExpiry, value)
	case FieldRefreshExpiry:
		return s.setMinutes(&form.RefreshExpiry, value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return s.render()
}

// SetTokenExpiry parses raw minutes. Malformed input is ignored.
func (s *Session) SetTokenExpiry(raw string) error {
	return s.setMinutes(&s.req.Form.TokenExpiry, raw)
}

// SetRefreshExpiry parses raw minutes. Malformed input is ignored.
func (s *Session) SetRefreshExpiry(raw string) error {
	return s.setMinutes(&s.req.Form.RefreshExpiry, raw)
}

// UpdateHeaderKey edits the key of the pair at index.
func (s *Session) UpdateHeaderKey(index int, key string) error {
	if err := s.checkHeader(index); err != nil {
		return err
	}
	s.req.Form.Headers[index].Key = key
	return s.render()
}

// UpdateHeaderValue edits the value of the pair at index.
func (s *Session) UpdateHeaderValue(index int, value string) error {
	if err := s.checkHeader(index); err != nil {
		return err
	}
	s.req.Form.Headers[index].Value = value
	return s.render()
}

// AddHeader appends a blank pair.
func (s *Session) AddHeader() error {
	s.req.Form.Headers = append(s.req.Form.Headers, snippet.Header{})
	return s.render()
}

// RemoveHeader deletes the pair at index. Removing the last pair leaves one
// blank pair behind.
func (s *Session) RemoveHeader(index int) error {
	if err := s.checkHeader(index); err != nil {
		return err
	}
	headers := s.req.Form.Headers
	headers = append(headers[:index:index], headers[index+1:]...)
	if len(headers) == 0 {
		headers = []snippet.Header{{}}
	}
	s.req.Form.Headers = headers
	return s.render()
}

func (s *Session) checkHeader(index int) error {
	if index < 0 || index >= len(s.req.Form.Headers) {
		return fmt.Errorf("%w: %d", ErrHeaderIndex, index)
	}
	return nil
}

func (s *Session) setBool(dst *bool, value any) error {
	switch v := value.(type) {
	case bool:
		*dst = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		*dst = parsed
	default:
		return nil
	}
	return s.render()
}

// setMinutes keeps the previous value unless value is a non-negative whole
// number. Empty text clears the field.
func (s *Session) setMinutes(dst *int, value any) error {
	minutes, ok := parseMinutes(value)
	if !ok {
		return nil
	}
	*dst = minutes
	return s.render()
}

func parseMinutes(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, v >= 0
	case int64:
		return int(v), v >= 0
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, true
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (s *Session) render() error {
	req := s.Request()
	start := time.Now()
	out, err := s.renderer.Render(req)
	elapsed := time.Since(start)

	s.err = err
	if err == nil {
		s.output = out
	}
	for _, fn := range s.observers {
		fn(req, out, elapsed, err)
	}
	if err != nil {
		return fmt.Errorf("session: render: %w", err)
	}
	return nil
}
