// Package console serves the code-example component over HTTP: a themed
// page, a JSON render API and a websocket that keeps one session per
// connection.
package console

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-snippetgen/internal/logging"
	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/quota"
	"github.com/goliatone/go-snippetgen/pkg/render"
	"github.com/goliatone/go-snippetgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-snippetgen/pkg/session"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// Renderer turns a request into snippet output.
type Renderer interface {
	Render(req snippet.Request) (snippet.Output, error)
}

// Languages lists the language names offered for a protocol.
type Languages interface {
	Languages(protocol catalog.Protocol) []string
}

// Option configures a Server.
type Option func(*Server)

// WithEnvironment sets the connection parameters every render uses.
func WithEnvironment(env snippet.Environment) Option {
	return func(s *Server) { s.env = env }
}

// WithTarget sets the station and issued identity.
func WithTarget(target snippet.Target) Option {
	return func(s *Server) { s.target = target }
}

// WithLanguages overrides the language source for the page and the
// languages endpoint.
func WithLanguages(languages Languages) Option {
	return func(s *Server) {
		if languages != nil {
			s.languages = languages
		}
	}
}

// WithQuota configures the banner shown on the page.
func WithQuota(gate quota.Gate, user quota.UserState, banner quota.Banner) Option {
	return func(s *Server) {
		s.gate = gate
		s.user = user
		s.banner = banner
	}
}

// WithTheme sets the page palette.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		if cfg != nil {
			s.theme = cfg
		}
	}
}

// WithFormats overrides the output formatter registry used by /api/render.
func WithFormats(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.formats = registry
		}
	}
}

const (
	// Time allowed to write a reply to the peer
	writeWait = 10 * time.Second

	// Maximum size of a single edit event
	maxEventSize = 64 << 10
)

// Server hosts the console endpoints.
type Server struct {
	renderer  Renderer
	languages Languages
	formats   *render.Registry
	page      *gotemplate.Engine
	env       snippet.Environment
	target    snippet.Target
	gate      quota.Gate
	user      quota.UserState
	banner    quota.Banner
	theme     *theme.RendererConfig
	upgrader  websocket.Upgrader
}

// New builds a Server around renderer.
func New(renderer Renderer, opts ...Option) (*Server, error) {
	if renderer == nil {
		return nil, errors.New("console: renderer is required")
	}
	page, err := newPageEngine()
	if err != nil {
		return nil, fmt.Errorf("console: page engine: %w", err)
	}

	s := &Server{
		renderer:  renderer,
		languages: catalog.Default(),
		formats:   render.NewDefaultRegistry(),
		page:      page,
		env:       snippet.Environment{AuthMode: snippet.AuthToken},
		gate:      quota.GateLegacyRoot,
		banner:    quota.DefaultBanner(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16384,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.theme == nil {
		s.theme = ThemeConfig(nil, "")
	}
	if s.gate.Legacy() {
		logging.Warn("quota banner uses the legacy root-user gate", zap.String("gate", string(s.gate)))
	}
	return s, nil
}

// Handler returns the routed, request-logging handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/api/languages", s.handleLanguages)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/ws", s.handleSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return logRequests(mux)
}

func (s *Server) newSession(opts ...session.Option) (*session.Session, error) {
	base := []session.Option{
		session.WithEnvironment(s.env),
		session.WithTarget(s.target),
		session.WithObserver(func(req snippet.Request, out snippet.Output, elapsed time.Duration, err error) {
			logging.LogRender(req.Language, string(req.Protocol), string(req.Scenario), out.DocsOnly, elapsed, err)
		}),
	}
	return session.New(s.renderer, append(base, opts...)...)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	sess, err := s.newSession()
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	req := sess.Request()
	out := sess.Output()

	protocols := make([]map[string]string, 0, 2)
	for _, p := range []catalog.Protocol{catalog.ProtocolSDK, catalog.ProtocolREST} {
		protocols = append(protocols, map[string]string{"name": string(p)})
	}
	sections := make([]map[string]string, 0, 3)
	for _, section := range out.Sections() {
		sections = append(sections, map[string]string{
			"kind":  string(section.Kind),
			"title": section.Title,
			"text":  section.Text,
		})
	}

	banner := ""
	if s.gate.Visible(s.user) {
		banner = s.banner.HTML()
	}
	docsLink := ""
	if out.DocsOnly && out.Docs != nil {
		docsLink = out.Docs.Link
	}

	data := map[string]any{
		"css_vars":    sortedCSSVars(s.theme),
		"theme":       s.theme.Theme,
		"variant":     s.theme.Variant,
		"banner":      banner,
		"protocols":   protocols,
		"protocol":    string(req.Protocol),
		"languages":   s.languages.Languages(req.Protocol),
		"language":    req.Language,
		"scenario":    string(req.Scenario),
		"sections":    sections,
		"lang_code":   out.LangCode,
		"coming_soon": out.ComingSoon,
		"docs_link":   docsLink,
	}
	html, err := s.page.RenderTemplate(pageName, data)
	if err != nil {
		logging.Error("console page render failed", zap.Error(err))
		http.Error(w, "page render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	raw := r.URL.Query().Get("protocol")
	if raw == "" {
		raw = string(catalog.ProtocolSDK)
	}
	protocol, err := catalog.ParseProtocol(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"protocol":  protocol,
		"default":   protocol.DefaultLanguage(),
		"languages": s.languages.Languages(protocol),
	})
}

// RenderRequest is the body accepted by POST /api/render. Omitted fields
// take the same defaults as a new session.
type RenderRequest struct {
	Protocol string             `json:"protocol"`
	Language string             `json:"language"`
	Scenario string             `json:"scenario"`
	Form     *snippet.FormState `json:"form,omitempty"`
	Target   *snippet.Target    `json:"target,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var body RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	req, err := s.buildRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	formatter, err := s.formats.Get(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	out, err := s.renderer.Render(req)
	logging.LogRender(req.Language, string(req.Protocol), string(req.Scenario), out.DocsOnly, time.Since(start), err)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	payload, err := formatter.Render(r.Context(), out, render.RenderOptions{
		Language:     req.Language,
		Protocol:     string(req.Protocol),
		Scenario:     string(req.Scenario),
		Installation: true,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", formatter.ContentType())
	_, _ = w.Write(payload)
}

func (s *Server) buildRequest(body RenderRequest) (snippet.Request, error) {
	req := snippet.Request{
		Protocol: catalog.ProtocolSDK,
		Scenario: snippet.ScenarioProduce,
		Form:     snippet.DefaultFormState(),
		Env:      s.env,
		Target:   s.target,
	}
	if strings.TrimSpace(body.Protocol) != "" {
		protocol, err := catalog.ParseProtocol(body.Protocol)
		if err != nil {
			return snippet.Request{}, err
		}
		req.Protocol = protocol
	}
	req.Language = strings.TrimSpace(body.Language)
	if req.Language == "" {
		req.Language = req.Protocol.DefaultLanguage()
	}
	if body.Scenario != "" {
		req.Scenario = snippet.ParseScenario(body.Scenario)
	}
	if body.Form != nil {
		req.Form = body.Form.Clone()
	}
	if body.Target != nil {
		req.Target = *body.Target
	}
	return req, nil
}

// socketReply is sent after every applied event.
type socketReply struct {
	Request   *snippet.Request  `json:"request,omitempty"`
	Languages []string          `json:"languages,omitempty"`
	Output    *snippet.Output   `json:"output,omitempty"`
	Sections  []snippet.Section `json:"sections,omitempty"`
	Clipboard string            `json:"clipboard,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxEventSize)

	opts := []session.Option{}
	if r.URL.Query().Get("scenario") == string(snippet.ScenarioConsume) {
		opts = append(opts, session.WithScenario(snippet.ScenarioConsume))
	}
	sess, err := s.newSession(opts...)
	if err != nil {
		_ = conn.WriteJSON(socketReply{Error: err.Error()})
		return
	}
	if err := s.reply(conn, r.RemoteAddr, sess, nil); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warn("websocket read failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
			}
			return
		}
		logging.LogWebSocketMessage(r.RemoteAddr, "in", data)

		var ev session.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			if werr := s.reply(conn, r.RemoteAddr, nil, fmt.Errorf("invalid event: %w", err)); werr != nil {
				return
			}
			continue
		}
		applyErr := sess.Apply(ev)
		if err := s.reply(conn, r.RemoteAddr, sess, applyErr); err != nil {
			return
		}
	}
}

func (s *Server) reply(conn *websocket.Conn, remoteAddr string, sess *session.Session, applyErr error) error {
	var msg socketReply
	if sess != nil {
		req := sess.Request()
		out := sess.Output()
		msg.Request = &req
		msg.Languages = s.languages.Languages(req.Protocol)
		msg.Output = &out
		msg.Sections = out.Sections()
		msg.Clipboard = out.Clipboard()
	}
	if applyErr != nil {
		msg.Error = applyErr.Error()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	logging.LogWebSocketMessage(remoteAddr, "out", payload)
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warn("console encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("console: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
