package snippet

import (
	"strings"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
)

// Scenario selects the produce or consume example.
type Scenario string

const (
	ScenarioProduce Scenario = "produce"
	ScenarioConsume Scenario = "consume"
)

// ParseScenario accepts "produce"/"producer" and "consume"/"consumer". Any
// other value falls back to produce.
func ParseScenario(raw string) Scenario {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "consume", "consumer":
		return ScenarioConsume
	default:
		return ScenarioProduce
	}
}

// AuthMode describes how the broker authenticates clients.
type AuthMode string

const (
	AuthToken    AuthMode = "token"
	AuthPassword AuthMode = "password"
)

// Mode is the deployment mode the snippets target.
type Mode string

const (
	ModeLocal   Mode = "local"
	ModeDocker  Mode = "docker"
	ModeCluster Mode = "cluster"
)

// Local reports whether the broker runs on the developer machine.
func (m Mode) Local() bool {
	switch Mode(strings.ToLower(string(m))) {
	case ModeLocal, ModeDocker:
		return true
	default:
		return false
	}
}

// Default hosts and ports used when the environment leaves them unset.
const (
	DefaultBrokerHost      = "memphis.memphis.svc.cluster.local"
	DefaultRestGatewayHost = "http://memphis-rest-gateway.memphis.svc.cluster.local:4444"
	DefaultRestGatewayPort = 4444
)

// Environment carries the connection parameters that used to be read from
// persisted browser settings. It is always passed explicitly.
type Environment struct {
	Mode            Mode     `json:"mode" yaml:"mode"`
	BrokerHost      string   `json:"broker_host,omitempty" yaml:"broker_host,omitempty"`
	RestGatewayHost string   `json:"rest_gateway_host,omitempty" yaml:"rest_gateway_host,omitempty"`
	RestGatewayPort int      `json:"rest_gateway_port,omitempty" yaml:"rest_gateway_port,omitempty"`
	AccountID       int      `json:"account_id,omitempty" yaml:"account_id,omitempty"`
	AuthMode        AuthMode `json:"auth_mode" yaml:"auth_mode"`
}

// PasswordAuth reports whether username/password authentication is active.
func (e Environment) PasswordAuth() bool {
	return e.AuthMode == AuthPassword
}

// Target identifies what the snippet connects to and as whom.
type Target struct {
	Station string `json:"station,omitempty"`
	// Username comes from an external "add user" flow and wins over the form.
	Username string `json:"username,omitempty"`
	// Credential is an externally issued token or password.
	Credential string `json:"credential,omitempty"`
}

// Header is one user-entered key/value pair.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FormState is the mutable form backing a component instance.
type FormState struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	EntityName string `json:"entity_name"`
	Blocking   bool   `json:"blocking"`
	Async      bool   `json:"async"`
	UseHeaders bool   `json:"use_headers"`
	JWT        string `json:"jwt"`
	// TokenExpiry and RefreshExpiry are minutes; zero means unset.
	TokenExpiry   int      `json:"token_expiry"`
	RefreshExpiry int      `json:"refresh_expiry"`
	Headers       []Header `json:"headers"`
}

// DefaultFormState returns the state a freshly mounted form starts with.
func DefaultFormState() FormState {
	return FormState{
		Blocking:   true,
		Async:      true,
		UseHeaders: true,
		Headers:    []Header{{}},
	}
}

// Clone returns a deep copy of the form.
func (f FormState) Clone() FormState {
	out := f
	out.Headers = append([]Header(nil), f.Headers...)
	return out
}

// Request is the full input of a render.
type Request struct {
	Protocol catalog.Protocol `json:"protocol"`
	Language string           `json:"language"`
	Scenario Scenario         `json:"scenario"`
	Form     FormState        `json:"form"`
	Env      Environment      `json:"env"`
	Target   Target           `json:"target"`
}

// Output is the rendered result. Only the texts of the active scenario are
// filled; the REST family always carries the token snippet.
type Output struct {
	Producer     string        `json:"producer,omitempty"`
	Consumer     string        `json:"consumer,omitempty"`
	Token        string        `json:"token,omitempty"`
	LangCode     string        `json:"lang_code,omitempty"`
	Installation string        `json:"installation,omitempty"`
	DocsOnly     bool          `json:"docs_only"`
	Docs         *catalog.Docs `json:"docs,omitempty"`
	ComingSoon   bool          `json:"coming_soon,omitempty"`
}

// Sections returns the non-empty texts in display order, labelled.
func (o Output) Sections() []Section {
	var out []Section
	if o.Token != "" {
		out = append(out, Section{Kind: catalog.KindToken, Title: "Generate a token", Text: o.Token})
	}
	if o.Producer != "" {
		out = append(out, Section{Kind: catalog.KindProducer, Title: "Produce data", Text: o.Producer})
	}
	if o.Consumer != "" {
		out = append(out, Section{Kind: catalog.KindConsumer, Title: "Consume data", Text: o.Consumer})
	}
	return out
}

// Clipboard returns the payload copied by the copy affordance: every
// displayed text, in display order.
func (o Output) Clipboard() string {
	sections := o.Sections()
	texts := make([]string, 0, len(sections))
	for _, s := range sections {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n")
}

// Section is a labelled snippet text.
type Section struct {
	Kind  catalog.SnippetKind `json:"kind"`
	Title string              `json:"title"`
	Text  string              `json:"text"`
}
