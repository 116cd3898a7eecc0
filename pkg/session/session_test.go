package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/session"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// recordingRenderer captures every request and echoes the language.
type recordingRenderer struct {
	requests []snippet.Request
	err      error
}

func (r *recordingRenderer) Render(req snippet.Request) (snippet.Output, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return snippet.Output{}, r.err
	}
	return snippet.Output{Producer: req.Language}, nil
}

func (r *recordingRenderer) last(t *testing.T) snippet.Request {
	t.Helper()
	if len(r.requests) == 0 {
		t.Fatalf("no render recorded")
	}
	return r.requests[len(r.requests)-1]
}

func newSession(t *testing.T, opts ...session.Option) (*session.Session, *recordingRenderer) {
	t.Helper()
	renderer := &recordingRenderer{}
	s, err := session.New(renderer, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, renderer
}

func TestNew_Defaults(t *testing.T) {
	s, renderer := newSession(t)

	if len(renderer.requests) != 1 {
		t.Fatalf("expected one initial render, got %d", len(renderer.requests))
	}
	req := s.Request()
	if req.Protocol != catalog.ProtocolSDK || req.Language != "Go" || req.Scenario != snippet.ScenarioProduce {
		t.Fatalf("unexpected initial selection %+v", req)
	}
	if diff := cmp.Diff(snippet.DefaultFormState(), req.Form); diff != "" {
		t.Fatalf("default form mismatch (-want +got):\n%s", diff)
	}
	if s.Output().Producer != "Go" {
		t.Fatalf("expected initial output, got %+v", s.Output())
	}
}

func TestSelectProtocol_ResetsLanguage(t *testing.T) {
	s, renderer := newSession(t, session.WithLanguage("Python"))

	if err := s.SelectProtocol(catalog.ProtocolREST); err != nil {
		t.Fatalf("select protocol: %v", err)
	}
	if got := renderer.last(t).Language; got != "cURL" {
		t.Fatalf("expected cURL after switching to REST, got %q", got)
	}

	if err := s.SelectProtocol(catalog.ProtocolSDK); err != nil {
		t.Fatalf("select protocol: %v", err)
	}
	if got := renderer.last(t).Language; got != "Go" {
		t.Fatalf("expected Go after switching to SDK, got %q", got)
	}
}

func TestEveryMutationRerenders(t *testing.T) {
	s, renderer := newSession(t)
	steps := []func() error{
		func() error { return s.SelectLanguage("Python") },
		func() error { return s.SelectScenario(snippet.ScenarioConsume) },
		func() error { return s.SetField(session.FieldUsername, "app") },
		func() error { return s.SetField(session.FieldAsync, false) },
		func() error { return s.SetTokenExpiry("15") },
		func() error { return s.AddHeader() },
		func() error { return s.UpdateHeaderKey(1, "env") },
		func() error { return s.UpdateHeaderValue(1, "prod") },
		func() error { return s.RemoveHeader(0) },
	}
	for idx, step := range steps {
		before := len(renderer.requests)
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", idx, err)
		}
		if len(renderer.requests) != before+1 {
			t.Fatalf("step %d did not re-render", idx)
		}
	}

	want := snippet.DefaultFormState()
	want.Username = "app"
	want.Async = false
	want.TokenExpiry = 15
	want.Headers = []snippet.Header{{Key: "env", Value: "prod"}}
	if diff := cmp.Diff(want, s.Form()); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveHeader_NeverEmpty(t *testing.T) {
	s, _ := newSession(t)
	if err := s.UpdateHeaderKey(0, "env"); err != nil {
		t.Fatalf("update key: %v", err)
	}
	if err := s.RemoveHeader(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]snippet.Header{{}}, s.Form().Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	if err := s.RemoveHeader(3); !errors.Is(err, session.ErrHeaderIndex) {
		t.Fatalf("expected ErrHeaderIndex, got %v", err)
	}
}

func TestRemoveHeader_DoesNotAliasPreviousRequests(t *testing.T) {
	s, renderer := newSession(t)
	_ = s.AddHeader()
	_ = s.UpdateHeaderKey(0, "a")
	_ = s.UpdateHeaderKey(1, "b")
	snapshot := renderer.last(t).Form.Headers

	if err := s.RemoveHeader(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]snippet.Header{{Key: "a"}, {Key: "b"}}, snapshot); diff != "" {
		t.Fatalf("earlier request mutated (-want +got):\n%s", diff)
	}
}

func TestExpiryParsing_IgnoresInvalidInput(t *testing.T) {
	s, renderer := newSession(t)
	if err := s.SetTokenExpiry("30"); err != nil {
		t.Fatalf("set: %v", err)
	}
	renders := len(renderer.requests)

	for _, raw := range []string{"abc", "-5", "1.5"} {
		if err := s.SetTokenExpiry(raw); err != nil {
			t.Fatalf("set %q: %v", raw, err)
		}
	}
	if got := s.Form().TokenExpiry; got != 30 {
		t.Fatalf("expected previous value 30, got %d", got)
	}
	if len(renderer.requests) != renders {
		t.Fatalf("ignored input should not re-render")
	}

	if err := s.SetField(session.FieldRefreshExpiry, float64(60)); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	if err := s.SetRefreshExpiry(""); err != nil {
		t.Fatalf("clear refresh: %v", err)
	}
	if got := s.Form().RefreshExpiry; got != 0 {
		t.Fatalf("expected cleared refresh expiry, got %d", got)
	}
}

func TestSetField_Unknown(t *testing.T) {
	s, _ := newSession(t)
	if err := s.SetField("colour", "blue"); !errors.Is(err, session.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestApply(t *testing.T) {
	s, renderer := newSession(t)
	events := []session.Event{
		{Op: session.OpProtocol, Value: "rest"},
		{Op: session.OpLanguage, Value: "Python"},
		{Op: session.OpScenario, Value: "consume"},
		{Op: session.OpSet, Field: "use_headers", Value: "false"},
		{Op: session.OpSet, Field: "jwt", Value: "abc"},
		{Op: session.OpHeaderAdd},
		{Op: session.OpHeaderValue, Index: 1, Value: "v"},
	}
	for _, ev := range events {
		if err := s.Apply(ev); err != nil {
			t.Fatalf("apply %+v: %v", ev, err)
		}
	}

	req := renderer.last(t)
	if req.Protocol != catalog.ProtocolREST || req.Language != "Python" || req.Scenario != snippet.ScenarioConsume {
		t.Fatalf("unexpected selection %+v", req)
	}
	if req.Form.UseHeaders || req.Form.JWT != "abc" {
		t.Fatalf("unexpected form %+v", req.Form)
	}
	if diff := cmp.Diff([]snippet.Header{{}, {Value: "v"}}, req.Form.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}

	if err := s.Apply(session.Event{Op: "explode"}); !errors.Is(err, session.ErrUnknownOp) {
		t.Fatalf("expected ErrUnknownOp, got %v", err)
	}
	if err := s.Apply(session.Event{Op: session.OpProtocol, Value: "grpc"}); !errors.Is(err, catalog.ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
}

func TestRenderErrorKeepsPreviousOutput(t *testing.T) {
	s, renderer := newSession(t)
	renderer.err = errors.New("broken template")

	if err := s.SelectLanguage("Python"); err == nil {
		t.Fatalf("expected render error")
	}
	if s.Err() == nil {
		t.Fatalf("expected Err to report the failure")
	}
	if s.Output().Producer != "Go" {
		t.Fatalf("expected previous output to be kept, got %+v", s.Output())
	}
}

func TestObserver(t *testing.T) {
	var calls int
	_, _ = newSession(t, session.WithObserver(func(req snippet.Request, _ snippet.Output, elapsed time.Duration, err error) {
		calls++
		if err != nil || elapsed < 0 || req.Language != "Go" {
			t.Errorf("unexpected observer args: %+v %v %v", req, elapsed, err)
		}
	}))
	if calls != 1 {
		t.Fatalf("expected one observer call, got %d", calls)
	}
}

func TestWithRealRenderer(t *testing.T) {
	renderer, err := snippet.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	s, err := session.New(renderer, session.WithTarget(snippet.Target{Station: "orders"}))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := s.SetField(session.FieldUseHeaders, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	before := s.Output().Producer
	_ = s.SetField(session.FieldUseHeaders, true)
	_ = s.SetField(session.FieldUseHeaders, false)
	if diff := cmp.Diff(before, s.Output().Producer); diff != "" {
		t.Fatalf("header toggle not idempotent (-before +after):\n%s", diff)
	}
}
