package snippet

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
)

// CredentialNames are the identifiers a language uses for the secret passed
// to the broker. Option is a functional option (Go), Field a named argument or
// property (everything else).
type CredentialNames struct {
	Option string
	Field  string
	Hint   string
}

// Capability holds the formatting functions for one language. Nil functions
// mean the language has no such concept and the slot renders empty.
type Capability struct {
	Credentials map[AuthMode]CredentialNames

	AccountClause  func(id string) string
	AsyncClause    func(async bool) string
	BlockingClause func(blocking bool) string

	HeaderDeclaration    string
	HeaderInitialization string
	HeaderLine           func(h Header) string
	HeaderSeparator      string
}

// credentialNames falls back to token names for unknown auth modes.
func (c Capability) credentialNames(mode AuthMode) CredentialNames {
	if names, ok := c.Credentials[mode]; ok {
		return names
	}
	return c.Credentials[AuthToken]
}

func (c Capability) headerLines(headers []Header) string {
	if c.HeaderLine == nil {
		return ""
	}
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		lines = append(lines, c.HeaderLine(Header{
			Key:   hintIfEmpty(h.Key, HintKey),
			Value: hintIfEmpty(h.Value, HintValue),
		}))
	}
	return strings.Join(lines, c.HeaderSeparator)
}

type capabilityKey struct {
	protocol catalog.Protocol
	language string
}

func keyFor(protocol catalog.Protocol, language string) capabilityKey {
	return capabilityKey{protocol: protocol, language: strings.ToLower(strings.TrimSpace(language))}
}

var (
	tokenField = map[AuthMode]CredentialNames{
		AuthToken:    {Field: "connection_token", Hint: HintToken},
		AuthPassword: {Field: "password", Hint: HintPassword},
	}
	camelField = map[AuthMode]CredentialNames{
		AuthToken:    {Field: "connectionToken", Hint: HintToken},
		AuthPassword: {Field: "password", Hint: HintPassword},
	}
)

func jsonAccount(id string) string { return fmt.Sprintf(`"account_id": %s`, id) }

// Header keys and values are escaped for the literal they land in: a double
// quoted string for every language except cURL, whose header sits inside a
// single quoted shell word.
var (
	doubleQuoted = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	singleQuoted = strings.NewReplacer(`'`, `'\''`)
)

func quotedPair(format string) func(Header) string {
	return escapedPair(format, doubleQuoted)
}

func escapedPair(format string, escaper *strings.Replacer) func(Header) string {
	return func(h Header) string {
		return fmt.Sprintf(format, escaper.Replace(h.Key), escaper.Replace(h.Value))
	}
}

func nodeAsync(async bool) string { return fmt.Sprintf("asyncProduce: %t", async) }

var nodeSDK = Capability{
	Credentials:          camelField,
	AccountClause:        func(id string) string { return "accountId: " + id },
	AsyncClause:          nodeAsync,
	HeaderInitialization: "const headers = memphis.headers()",
	HeaderLine:           quotedPair(`headers.add("%s", "%s")`),
	HeaderSeparator:      "\n        ",
}

func restCapability(line func(Header) string, separator string) Capability {
	return Capability{
		Credentials:     tokenField,
		AccountClause:   jsonAccount,
		HeaderLine:      line,
		HeaderSeparator: separator,
	}
}

var capabilities = map[capabilityKey]Capability{
	keyFor(catalog.ProtocolSDK, "Go"): {
		Credentials: map[AuthMode]CredentialNames{
			AuthToken:    {Option: "memphis.ConnectionToken", Field: "ConnectionToken", Hint: HintToken},
			AuthPassword: {Option: "memphis.Password", Field: "Password", Hint: HintPassword},
		},
		AccountClause: func(id string) string { return ", memphis.AccountId(" + id + ")" },
		AsyncClause: func(async bool) string {
			if async {
				return "memphis.AsyncProduce()"
			}
			return "memphis.SyncProduce()"
		},
		HeaderDeclaration:    "hdrs := memphis.Headers{}",
		HeaderInitialization: "hdrs.New()",
		HeaderLine: func(h Header) string {
			return fmt.Sprintf("err = hdrs.Add(%q, %q)\n\tif err != nil {\n\t\tfmt.Printf(\"Header failed: %%v\", err)\n\t\tos.Exit(1)\n\t}", h.Key, h.Value)
		},
		HeaderSeparator: "\n\t",
	},
	keyFor(catalog.ProtocolSDK, "Python"): {
		Credentials:   tokenField,
		AccountClause: func(id string) string { return ", account_id=" + id },
		BlockingClause: func(blocking bool) string {
			if blocking {
				return ", blocking=True"
			}
			return ""
		},
		HeaderInitialization: "headers = Headers()",
		HeaderLine:           quotedPair(`headers.add("%s", "%s")`),
		HeaderSeparator:      "\n        ",
	},
	keyFor(catalog.ProtocolSDK, "Node.js"):    nodeSDK,
	keyFor(catalog.ProtocolSDK, "TypeScript"): nodeSDK,
	keyFor(catalog.ProtocolSDK, ".NET (C#)"): {
		Credentials: map[AuthMode]CredentialNames{
			AuthToken:    {Field: "ConnectionToken", Hint: HintToken},
			AuthPassword: {Field: "Password", Hint: HintPassword},
		},
		AccountClause:        func(id string) string { return "options.AccountId = " + id + ";" },
		AsyncClause:          func(async bool) string { return fmt.Sprintf("asyncProduceAck: %t", async) },
		HeaderInitialization: "var commonHeaders = new NameValueCollection();",
		HeaderLine:           quotedPair(`commonHeaders.Add("%s", "%s");`),
		HeaderSeparator:      "\n    ",
	},

	keyFor(catalog.ProtocolREST, "cURL"):    restCapability(escapedPair(`--header '%s: %s' \`, singleQuoted), "\n"),
	keyFor(catalog.ProtocolREST, "Go"):      restCapability(quotedPair(`req.Header.Add("%s", "%s")`), "\n\t"),
	keyFor(catalog.ProtocolREST, "Node.js"): restCapability(quotedPair(`"%s": "%s",`), "\n        "),
	keyFor(catalog.ProtocolREST, "Python"):  restCapability(quotedPair(`"%s": "%s",`), "\n  "),
	keyFor(catalog.ProtocolREST, "Java"): {
		Credentials: tokenField,
		// The Java body is a string literal, so the clause is pre-escaped.
		AccountClause:   func(id string) string { return `\"account_id\": ` + id },
		HeaderLine:      quotedPair(`.addHeader("%s", "%s")`),
		HeaderSeparator: "\n  ",
	},
	keyFor(catalog.ProtocolREST, "JavaScript - jQuery"): restCapability(quotedPair(`"%s": "%s",`), "\n    "),
	keyFor(catalog.ProtocolREST, "JavaScript - Fetch"):  restCapability(quotedPair(`myHeaders.append("%s", "%s");`), "\n"),
}

// defaultCapabilities cover catalog entries added without a dedicated row.
var defaultCapabilities = map[catalog.Protocol]Capability{
	catalog.ProtocolSDK:  {Credentials: camelField, AccountClause: func(id string) string { return "accountId: " + id }},
	catalog.ProtocolREST: restCapability(quotedPair(`"%s": "%s",`), "\n"),
}

// CapabilityFor returns the capability registered for the pair, falling back
// to the protocol default. ok reports whether a dedicated row exists.
func CapabilityFor(protocol catalog.Protocol, language string) (Capability, bool) {
	if c, ok := capabilities[keyFor(protocol, language)]; ok {
		return c, true
	}
	return defaultCapabilities[protocol], false
}
