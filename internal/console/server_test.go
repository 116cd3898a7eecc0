package console

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/quota"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()

	renderer, err := snippet.New()
	if err != nil {
		t.Fatalf("snippet renderer: %v", err)
	}
	base := []Option{
		WithEnvironment(snippet.Environment{Mode: snippet.ModeDocker, AuthMode: snippet.AuthToken, AccountID: 9}),
		WithTarget(snippet.Target{Station: "orders"}),
	}
	srv, err := New(renderer, append(base, opts...)...)
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	return srv.Handler()
}

func TestNew_RequiresRenderer(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestPage_RendersThemeAndSnippet(t *testing.T) {
	handler := newTestServer(t, WithQuota(quota.GateLegacyRoot, quota.UserState{UserType: quota.RootUserType}, quota.DefaultBanner()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"--brand: #6557FF;",
		`data-theme="memphis"`,
		`class="quota-banner"`,
		`data-kind="producer"`,
		`class="language-go"`,
		`<option value="Go" selected>Go</option>`,
		"orders",
		"<footer>snippetgen ",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q\n%s", want, body)
		}
	}
}

func TestPage_HidesBannerForMembers(t *testing.T) {
	handler := newTestServer(t, WithQuota(quota.GateLegacyRoot, quota.UserState{UserType: "application"}, quota.DefaultBanner()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Contains(rec.Body.String(), `class="quota-banner"`) {
		t.Fatalf("expected no banner for non-root user")
	}
}

func TestPage_UnknownPath(t *testing.T) {
	handler := newTestServer(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLanguages(t *testing.T) {
	handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/languages?protocol=rest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Protocol  string   `json:"protocol"`
		Default   string   `json:"default"`
		Languages []string `json:"languages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Protocol != "REST" || payload.Default != "cURL" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if diff := cmp.Diff(catalog.Default().Languages(catalog.ProtocolREST), payload.Languages); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/languages?protocol=ftp", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown protocol, got %d", rec.Code)
	}
}

func TestRender_JSON(t *testing.T) {
	handler := newTestServer(t)

	body := `{"protocol":"sdk","language":"Python","scenario":"consume"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out snippet.Output
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Consumer == "" || out.Producer != "" {
		t.Fatalf("expected consumer only, got %+v", out)
	}
	if !strings.Contains(out.Consumer, "orders") || !strings.Contains(out.Consumer, "localhost") {
		t.Fatalf("expected station and docker host in consumer:\n%s", out.Consumer)
	}
	if out.LangCode != "python" {
		t.Fatalf("unexpected lang code %q", out.LangCode)
	}
}

func TestRender_Markdown(t *testing.T) {
	handler := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/render?format=markdown", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "```go\n") {
		t.Fatalf("expected fenced go block:\n%s", rec.Body.String())
	}
}

func TestRender_BadRequests(t *testing.T) {
	handler := newTestServer(t)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{name: "method", method: http.MethodGet, target: "/api/render", status: http.StatusMethodNotAllowed},
		{name: "unknown field", method: http.MethodPost, target: "/api/render", body: `{"colour":"red"}`, status: http.StatusBadRequest},
		{name: "protocol", method: http.MethodPost, target: "/api/render", body: `{"protocol":"ftp"}`, status: http.StatusBadRequest},
		{name: "format", method: http.MethodPost, target: "/api/render?format=yaml", body: `{}`, status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSocket_AppliesEvents(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	initial := readReply(t, conn)
	if initial.Output == nil || initial.Output.Producer == "" {
		t.Fatalf("expected initial producer output, got %+v", initial)
	}

	send(t, conn, `{"op":"scenario","value":"consume"}`)
	reply := readReply(t, conn)
	if reply.Error != "" {
		t.Fatalf("unexpected error %q", reply.Error)
	}
	if reply.Request.Scenario != snippet.ScenarioConsume || reply.Output.Consumer == "" {
		t.Fatalf("expected consume output, got %+v", reply)
	}
	if reply.Clipboard != reply.Output.Consumer {
		t.Fatalf("expected clipboard to mirror the consumer text")
	}

	send(t, conn, `{"op":"set","field":"entity_name","value":"billing"}`)
	reply = readReply(t, conn)
	if !strings.Contains(reply.Output.Consumer, "billing") {
		t.Fatalf("expected consumer name in output:\n%s", reply.Output.Consumer)
	}

	send(t, conn, `{"op":"rewind"}`)
	reply = readReply(t, conn)
	if !strings.Contains(reply.Error, "unknown op") {
		t.Fatalf("expected unknown op error, got %q", reply.Error)
	}
	if reply.Output == nil || reply.Output.Consumer == "" {
		t.Fatalf("expected the previous output to be kept")
	}

	send(t, conn, `not json`)
	reply = readReply(t, conn)
	if !strings.Contains(reply.Error, "invalid event") {
		t.Fatalf("expected invalid event error, got %q", reply.Error)
	}
}

func dialSocket(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestSocket_ProtocolSwitchRefreshesLanguages(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()
	conn := dialSocket(t, srv)

	initial := readReply(t, conn)
	if !contains(initial.Languages, "TypeScript") || contains(initial.Languages, "cURL") {
		t.Fatalf("expected the SDK language list, got %v", initial.Languages)
	}

	send(t, conn, `{"op":"protocol","value":"REST"}`)
	reply := readReply(t, conn)
	for _, want := range []string{"cURL", "JavaScript - jQuery", "JavaScript - Fetch"} {
		if !contains(reply.Languages, want) {
			t.Fatalf("expected %q in the REST language list, got %v", want, reply.Languages)
		}
	}
	if contains(reply.Languages, "TypeScript") {
		t.Fatalf("SDK-only language offered under REST: %v", reply.Languages)
	}
	if reply.Request.Language != "cURL" || reply.Output.Token == "" {
		t.Fatalf("expected the cURL token example, got %+v", reply)
	}

	send(t, conn, `{"op":"language","value":"JavaScript - Fetch"}`)
	reply = readReply(t, conn)
	if reply.Output.Producer == "" {
		t.Fatalf("expected a fetch producer example, got %+v", reply.Output)
	}
}

type testReply struct {
	Request   *snippet.Request `json:"request"`
	Languages []string         `json:"languages"`
	Output    *snippet.Output  `json:"output"`
	Clipboard string           `json:"clipboard"`
	Error     string           `json:"error"`
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readReply(t *testing.T, conn *websocket.Conn) testReply {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply testReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	return reply
}
