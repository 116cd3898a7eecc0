// Package prompt drives a session through interactive terminal prompts.
package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/session"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// Languages lists the language names offered for a protocol.
type Languages interface {
	Languages(protocol catalog.Protocol) []string
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithLanguages overrides the language source (defaults to the embedded
// catalog).
func WithLanguages(languages Languages) Option {
	return func(w *Wizard) {
		if languages != nil {
			w.languages = languages
		}
	}
}

// Wizard walks the user through the selection and form fields, applying each
// answer to a session.
type Wizard struct {
	driver    PromptDriver
	languages Languages
}

// NewWizard builds a Wizard. Without WithPromptDriver it prompts on the
// process terminal.
func NewWizard(opts ...Option) *Wizard {
	w := &Wizard{}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver(nil)
	}
	if w.languages == nil {
		w.languages = catalog.Default()
	}
	return w
}

var (
	protocolOptions = []catalog.Protocol{catalog.ProtocolSDK, catalog.ProtocolREST}
	scenarioOptions = []string{"Produce data", "Consume data"}
)

// Run asks for every input the current selection needs and returns the final
// output.
func (w *Wizard) Run(ctx context.Context, s *session.Session) (snippet.Output, error) {
	if err := w.selectProtocol(ctx, s); err != nil {
		return snippet.Output{}, err
	}
	if err := w.selectLanguage(ctx, s); err != nil {
		return snippet.Output{}, err
	}
	if s.Output().DocsOnly {
		return s.Output(), w.docsNotice(ctx, s)
	}
	if err := w.selectScenario(ctx, s); err != nil {
		return snippet.Output{}, err
	}

	req := s.Request()
	if err := w.credentials(ctx, s); err != nil {
		return snippet.Output{}, err
	}

	if req.Protocol == catalog.ProtocolREST {
		if err := w.restFields(ctx, s); err != nil {
			return snippet.Output{}, err
		}
	} else if err := w.entityName(ctx, s); err != nil {
		return snippet.Output{}, err
	}

	if req.Scenario == snippet.ScenarioProduce {
		if err := w.produceFlags(ctx, s); err != nil {
			return snippet.Output{}, err
		}
		if err := w.headers(ctx, s); err != nil {
			return snippet.Output{}, err
		}
	}

	return s.Output(), s.Err()
}

func (w *Wizard) selectProtocol(ctx context.Context, s *session.Session) error {
	options := make([]string, len(protocolOptions))
	current := 0
	for i, p := range protocolOptions {
		options[i] = string(p)
		if p == s.Request().Protocol {
			current = i
		}
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Protocol", Options: options, DefaultIndex: current})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(protocolOptions) {
		return fmt.Errorf("prompt: invalid protocol selection %d", idx)
	}
	return s.SelectProtocol(protocolOptions[idx])
}

func (w *Wizard) selectLanguage(ctx context.Context, s *session.Session) error {
	req := s.Request()
	options := w.languages.Languages(req.Protocol)
	if len(options) == 0 {
		return fmt.Errorf("%w for %s", ErrNoLanguages, req.Protocol)
	}
	current := indexOf(options, req.Language)
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Language", Options: options, DefaultIndex: current, PageSize: 10})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("prompt: invalid language selection %d", idx)
	}
	return s.SelectLanguage(options[idx])
}

func (w *Wizard) selectScenario(ctx context.Context, s *session.Session) error {
	current := 0
	if s.Request().Scenario == snippet.ScenarioConsume {
		current = 1
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Scenario", Options: scenarioOptions, DefaultIndex: current})
	if err != nil {
		return err
	}
	scenario := snippet.ScenarioProduce
	if idx == 1 {
		scenario = snippet.ScenarioConsume
	}
	return s.SelectScenario(scenario)
}

func (w *Wizard) docsNotice(ctx context.Context, s *session.Session) error {
	out := s.Output()
	if out.Docs == nil {
		return w.driver.Info(ctx, "No inline example is available for this language.")
	}
	return w.driver.Info(ctx, fmt.Sprintf("No inline example is available. See %s", out.Docs.Link))
}

func (w *Wizard) credentials(ctx context.Context, s *session.Session) error {
	req := s.Request()
	if req.Target.Username == "" {
		username, err := w.driver.Input(ctx, InputConfig{Message: "Username", Default: req.Form.Username})
		if err != nil {
			return err
		}
		if err := s.SetField(session.FieldUsername, strings.TrimSpace(username)); err != nil {
			return err
		}
	}
	if req.Target.Credential != "" {
		return nil
	}

	label := "Connection token"
	if req.Env.PasswordAuth() {
		label = "Password"
	}
	secret, err := w.driver.Password(ctx, InputConfig{Message: label, Default: req.Form.Password})
	if err != nil {
		return err
	}
	return s.SetField(session.FieldPassword, secret)
}

func (w *Wizard) entityName(ctx context.Context, s *session.Session) error {
	req := s.Request()
	label := "Producer name"
	if req.Scenario == snippet.ScenarioConsume {
		label = "Consumer name"
	}
	name, err := w.driver.Input(ctx, InputConfig{Message: label, Default: req.Form.EntityName})
	if err != nil {
		return err
	}
	return s.SetField(session.FieldEntityName, strings.TrimSpace(name))
}

func (w *Wizard) restFields(ctx context.Context, s *session.Session) error {
	req := s.Request()
	if req.Scenario == snippet.ScenarioProduce {
		jwt, err := w.driver.Input(ctx, InputConfig{Message: "JWT", Default: req.Form.JWT})
		if err != nil {
			return err
		}
		if err := s.SetField(session.FieldJWT, strings.TrimSpace(jwt)); err != nil {
			return err
		}
	}

	expiry, err := w.driver.Input(ctx, InputConfig{
		Message:   "Token expiry (minutes)",
		Default:   minutesDefault(req.Form.TokenExpiry),
		Validator: validateMinutes,
	})
	if err != nil {
		return err
	}
	if err := s.SetTokenExpiry(expiry); err != nil {
		return err
	}

	refresh, err := w.driver.Input(ctx, InputConfig{
		Message:   "Refresh token expiry (minutes)",
		Default:   minutesDefault(req.Form.RefreshExpiry),
		Validator: validateMinutes,
	})
	if err != nil {
		return err
	}
	return s.SetRefreshExpiry(refresh)
}

func (w *Wizard) produceFlags(ctx context.Context, s *session.Session) error {
	req := s.Request()
	if req.Protocol != catalog.ProtocolSDK {
		return nil
	}
	capability, _ := snippet.CapabilityFor(req.Protocol, req.Language)

	if capability.BlockingClause != nil {
		blocking, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Blocking produce?", Default: req.Form.Blocking})
		if err != nil {
			return err
		}
		if err := s.SetField(session.FieldBlocking, blocking); err != nil {
			return err
		}
	}
	if capability.AsyncClause != nil {
		async, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Async produce?", Default: req.Form.Async})
		if err != nil {
			return err
		}
		if err := s.SetField(session.FieldAsync, async); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) headers(ctx context.Context, s *session.Session) error {
	req := s.Request()
	use, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Add message headers?", Default: req.Form.UseHeaders})
	if err != nil {
		return err
	}
	if err := s.SetField(session.FieldUseHeaders, use); err != nil || !use {
		return err
	}

	for idx := 0; ; idx++ {
		if idx >= len(s.Form().Headers) {
			if err := s.AddHeader(); err != nil {
				return err
			}
		}
		current := s.Form().Headers[idx]
		key, err := w.driver.Input(ctx, InputConfig{Message: fmt.Sprintf("Header #%d key", idx+1), Default: current.Key})
		if err != nil {
			return err
		}
		if err := s.UpdateHeaderKey(idx, strings.TrimSpace(key)); err != nil {
			return err
		}
		value, err := w.driver.Input(ctx, InputConfig{Message: fmt.Sprintf("Header #%d value", idx+1), Default: current.Value})
		if err != nil {
			return err
		}
		if err := s.UpdateHeaderValue(idx, strings.TrimSpace(value)); err != nil {
			return err
		}
		more, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Add another header?"})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func validateMinutes(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of minutes")
	}
	return nil
}

func minutesDefault(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return strconv.Itoa(minutes)
}
