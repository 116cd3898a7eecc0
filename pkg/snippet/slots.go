package snippet

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
)

// Hints shown in place of values the user has not provided.
const (
	HintStation       = "<station-name>"
	HintProducer      = "<producer-name>"
	HintConsumer      = "<consumer-name>"
	HintUsername      = "<application type username>"
	HintToken         = "<broker-token>"
	HintPassword      = "<password>"
	HintAccountID     = "<account-id>"
	HintKey           = "<key>"
	HintValue         = "<value>"
	HintJWT           = "<jwt>"
	HintTokenExpiry   = "<token_expiry_in_minutes>"
	HintRefreshExpiry = "<refresh_token_expiry_in_minutes>"
)

// Slots is the named data a template executes against.
type Slots map[string]any

// BuildSlots computes every slot for req. Steps run in a fixed order: host,
// names, account, credential, produce-only clauses, headers, REST extras.
// Values are plain strings and are never re-scanned, so a header value that
// looks like another slot stays intact.
func BuildSlots(req Request, capability Capability, paths map[string]string) Slots {
	req = normalize(req)
	produce := req.Scenario == ScenarioProduce

	slots := Slots{
		"host":    resolveHost(req.Protocol, req.Env),
		"station": hintIfEmpty(req.Target.Station, HintStation),
	}

	slots["producer_name"] = ""
	slots["consumer_name"] = ""
	if produce {
		slots["producer_name"] = hintIfEmpty(req.Form.EntityName, HintProducer)
	} else {
		slots["consumer_name"] = hintIfEmpty(req.Form.EntityName, HintConsumer)
	}

	account := map[string]any{"enabled": false, "clause": ""}
	if !req.Env.PasswordAuth() && capability.AccountClause != nil {
		id := HintAccountID
		if req.Env.AccountID > 0 {
			id = strconv.Itoa(req.Env.AccountID)
		}
		account["enabled"] = true
		account["clause"] = capability.AccountClause(id)
	}
	slots["account"] = account

	names := capability.credentialNames(req.Env.AuthMode)
	value := firstNonEmpty(req.Target.Credential, req.Form.Password)
	slots["credential"] = map[string]string{
		"option": names.Option,
		"field":  names.Field,
		"value":  hintIfEmpty(value, names.Hint),
	}
	slots["username"] = hintIfEmpty(firstNonEmpty(req.Target.Username, req.Form.Username), HintUsername)

	slots["async_clause"] = ""
	slots["blocking_clause"] = ""
	if produce {
		if capability.AsyncClause != nil {
			slots["async_clause"] = capability.AsyncClause(req.Form.Async)
		}
		if capability.BlockingClause != nil {
			slots["blocking_clause"] = capability.BlockingClause(req.Form.Blocking)
		}
	}

	headers := map[string]any{
		"enabled":        false,
		"declaration":    "",
		"initialization": "",
		"lines":          "",
	}
	if produce && req.Form.UseHeaders && capability.HeaderLine != nil {
		headers["enabled"] = true
		headers["declaration"] = capability.HeaderDeclaration
		headers["initialization"] = capability.HeaderInitialization
		headers["lines"] = capability.headerLines(nonEmptyHeaders(req.Form.Headers))
	}
	slots["headers"] = headers

	if req.Protocol == catalog.ProtocolREST {
		slots["jwt"] = hintIfEmpty(req.Form.JWT, HintJWT)
		slots["token_expiry"] = minutesOrHint(req.Form.TokenExpiry, HintTokenExpiry)
		slots["refresh_expiry"] = minutesOrHint(req.Form.RefreshExpiry, HintRefreshExpiry)
		pathSlots := make(map[string]string, len(paths))
		for key, value := range paths {
			pathSlots[key] = value
		}
		slots["paths"] = pathSlots
	}

	return slots
}

func normalize(req Request) Request {
	if req.Protocol == "" {
		req.Protocol = catalog.ProtocolSDK
	}
	if req.Scenario == "" {
		req.Scenario = ScenarioProduce
	}
	if req.Env.AuthMode == "" {
		req.Env.AuthMode = AuthToken
	}
	return req
}

func resolveHost(protocol catalog.Protocol, env Environment) string {
	if protocol == catalog.ProtocolREST {
		if env.Mode.Local() {
			port := env.RestGatewayPort
			if port <= 0 {
				port = DefaultRestGatewayPort
			}
			return "http://localhost:" + strconv.Itoa(port)
		}
		return firstNonEmpty(env.RestGatewayHost, DefaultRestGatewayHost)
	}
	if env.Mode.Local() {
		return "localhost"
	}
	return firstNonEmpty(env.BrokerHost, DefaultBrokerHost)
}

// nonEmptyHeaders keeps the invariant that a header block always has at least
// one line, even when the form list was cleared.
func nonEmptyHeaders(headers []Header) []Header {
	if len(headers) == 0 {
		return []Header{{}}
	}
	return headers
}

func minutesOrHint(minutes int, hint string) string {
	if minutes <= 0 {
		return hint
	}
	return strconv.Itoa(minutes)
}

func hintIfEmpty(value, hint string) string {
	if strings.TrimSpace(value) == "" {
		return hint
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
