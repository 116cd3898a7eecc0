package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-snippetgen/pkg/session"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	infoMessages []string
	messages     []string
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()
	renderer, err := snippet.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	s, err := session.New(renderer, opts...)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func TestWizard_SDKProduce(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 0, 0},
		inputs:    []string{"app", "p1", "env", "prod"},
		passwords: []string{"tok"},
		confirm:   []bool{true, true, false},
	}
	s := newSession(t, session.WithTarget(snippet.Target{Station: "orders"}))

	out, err := NewWizard(WithPromptDriver(driver)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{
		`memphis.ConnectionToken("tok")`,
		`conn.CreateProducer("orders", "p1")`,
		`hdrs.Add("env", "prod")`,
		"memphis.AsyncProduce()",
	} {
		if !strings.Contains(out.Producer, want) {
			t.Fatalf("producer missing %q:\n%s", want, out.Producer)
		}
	}
	if driver.inputPos != len(driver.inputs) || driver.confirmPos != len(driver.confirm) {
		t.Fatalf("not every scripted answer was consumed: %v", driver.messages)
	}
	for _, msg := range driver.messages {
		if strings.Contains(msg, "Blocking") {
			t.Fatalf("Go should not ask about blocking produce")
		}
	}
}

func TestWizard_PythonAsksBlocking(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 1, 0},
		inputs:    []string{"", ""},
		passwords: []string{""},
		confirm:   []bool{false, false},
	}
	s := newSession(t)

	out, err := NewWizard(WithPromptDriver(driver)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.Producer, "blocking=True") || strings.Contains(out.Producer, "headers.add") {
		t.Fatalf("expected blocking and headers off:\n%s", out.Producer)
	}
	if driver.messages[len(driver.messages)-2] != "Blocking produce?" {
		t.Fatalf("expected blocking prompt, got %v", driver.messages)
	}
}

func TestWizard_RESTProduce(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{1, 0, 0},
		inputs:    []string{"app", "jwt-value", "30", "60"},
		passwords: []string{"pw"},
		confirm:   []bool{false},
	}
	s := newSession(t, session.WithEnvironment(snippet.Environment{AuthMode: snippet.AuthPassword}))

	out, err := NewWizard(WithPromptDriver(driver)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{`"password": "pw"`, `"token_expiry_in_minutes": 30`, `"refresh_token_expiry_in_minutes": 60`} {
		if !strings.Contains(out.Token, want) {
			t.Fatalf("token missing %q:\n%s", want, out.Token)
		}
	}
	if !strings.Contains(out.Producer, "Bearer jwt-value") {
		t.Fatalf("producer missing jwt:\n%s", out.Producer)
	}
	if driver.messages[4] != "Password" {
		t.Fatalf("expected password prompt label, got %v", driver.messages)
	}
}

func TestWizard_DocsOnlyLanguage(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0, 5}}
	s := newSession(t)

	out, err := NewWizard(WithPromptDriver(driver)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !out.DocsOnly {
		t.Fatalf("expected docs-only output")
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], out.Docs.Link) {
		t.Fatalf("expected docs notice, got %v", driver.infoMessages)
	}
}

func TestWizard_SkipsProvidedIdentity(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{0, 0, 1},
		inputs:    []string{"c1"},
	}
	s := newSession(t, session.WithTarget(snippet.Target{Username: "issued", Credential: "secret"}))

	out, err := NewWizard(WithPromptDriver(driver)).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.Consumer, `memphis.Connect("memphis.memphis.svc.cluster.local", "issued", memphis.ConnectionToken("secret")`) {
		t.Fatalf("consumer missing issued identity:\n%s", out.Consumer)
	}
	if driver.passPos != 0 {
		t.Fatalf("should not prompt for a credential")
	}
}

func TestWizard_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{}
	s := newSession(t)
	if _, err := NewWizard(WithPromptDriver(driver)).Run(context.Background(), s); err == nil {
		t.Fatalf("expected error from unscripted prompt")
	}
}

func TestValidateMinutes(t *testing.T) {
	for _, ok := range []string{"", "0", " 15 "} {
		if err := validateMinutes(ok); err != nil {
			t.Fatalf("validateMinutes(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"x", "-1", "2.5"} {
		if err := validateMinutes(bad); err == nil {
			t.Fatalf("validateMinutes(%q) should fail", bad)
		}
	}
}
