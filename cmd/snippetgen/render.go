package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-snippetgen/internal/clipboard"
	"github.com/goliatone/go-snippetgen/internal/credentials"
	"github.com/goliatone/go-snippetgen/pkg/render"
	"github.com/goliatone/go-snippetgen/pkg/session"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

var renderFlags struct {
	protocol      string
	language      string
	scenario      string
	station       string
	username      string
	password      string
	name          string
	jwt           string
	tokenExpiry   string
	refreshExpiry string
	blocking      bool
	async         bool
	useHeaders    bool
	headers       []string
	format        string
	install       bool
	copy          bool
	templatesDir  string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a code example",
	Long: `Render the producer or consumer example for one language.

Values that are not supplied are shown as placeholders such as <station-name>.
The station and username default to the settings file; the credential defaults
to the one stored with 'snippetgen credential set' for that username. An
explicit --password replaces the stored credential.`,
	Example: `  # Go producer for the configured station
  snippetgen render

  # Python consumer with a consumer name
  snippetgen render --language Python --scenario consume --name billing

  # REST producer with headers, as markdown
  snippetgen render --protocol REST --header env=prod --header trace=1 --format markdown

  # Copy the example to the clipboard
  snippetgen render --language Node.js --copy`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.protocol, "protocol", "SDK", "Protocol family (SDK, REST)")
	f.StringVar(&renderFlags.language, "language", "", "Language name (defaults to Go for SDK, cURL for REST)")
	f.StringVar(&renderFlags.scenario, "scenario", "produce", "Example to render (produce, consume)")
	f.StringVar(&renderFlags.station, "station", "", "Station name")
	f.StringVar(&renderFlags.username, "username", "", "Application username")
	f.StringVar(&renderFlags.password, "password", "", "Connection token or password (replaces the stored credential)")
	f.StringVar(&renderFlags.name, "name", "", "Producer or consumer name")
	f.StringVar(&renderFlags.jwt, "jwt", "", "JWT used by REST produce examples")
	f.StringVar(&renderFlags.tokenExpiry, "token-expiry", "", "REST token expiry in minutes")
	f.StringVar(&renderFlags.refreshExpiry, "refresh-expiry", "", "REST refresh token expiry in minutes")
	f.BoolVar(&renderFlags.blocking, "blocking", true, "Blocking produce (Python, TypeScript)")
	f.BoolVar(&renderFlags.async, "async", true, "Async produce (SDKs that support it)")
	f.BoolVar(&renderFlags.useHeaders, "headers", true, "Include a message headers block")
	f.StringArrayVar(&renderFlags.headers, "header", nil, "Message header as key=value (repeatable)")
	f.StringVar(&renderFlags.format, "format", "text", "Output format (text, markdown, json)")
	f.BoolVar(&renderFlags.install, "install", false, "Include the package installation command")
	f.BoolVar(&renderFlags.copy, "copy", false, "Copy the rendered example to the clipboard")
	f.StringVar(&renderFlags.templatesDir, "templates-dir", "", "Load templates from this directory instead of the built-in set")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	protocol, err := resolveProtocol(renderFlags.protocol)
	if err != nil {
		return err
	}
	formatter, err := render.NewDefaultRegistry().Get(renderFlags.format)
	if err != nil {
		return err
	}

	live, err := loadCatalog(templatesDir(renderFlags.templatesDir))
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cmd.Context(), live)
	if err != nil {
		return err
	}

	opts := append(baseSessionOptions(cfg),
		session.WithProtocol(protocol),
		session.WithScenario(snippet.ParseScenario(renderFlags.scenario)),
	)
	if renderFlags.language != "" {
		opts = append(opts, session.WithLanguage(renderFlags.language))
	}
	sess, err := session.New(renderer, opts...)
	if err != nil {
		return err
	}

	if err := applyRenderFlags(cmd, sess); err != nil {
		return err
	}

	req := sess.Request()
	out := sess.Output()
	payload, err := formatter.Render(cmd.Context(), out, render.RenderOptions{
		Language:     req.Language,
		Protocol:     string(req.Protocol),
		Scenario:     string(req.Scenario),
		Installation: renderFlags.install,
	})
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(payload); err != nil {
		return err
	}

	if renderFlags.copy {
		if err := clipboard.Copy(clipboard.System{}, out.Clipboard()); err != nil {
			return err
		}
		stderrf("Copied to clipboard.\n")
	}
	return nil
}

// applyRenderFlags replays the explicitly set flags as form edits.
func applyRenderFlags(cmd *cobra.Command, sess *session.Session) error {
	changed := cmd.Flags().Changed

	if changed("station") || changed("username") || changed("password") {
		t := sess.Request().Target
		if changed("station") {
			t.Station = strings.TrimSpace(renderFlags.station)
		}
		if changed("username") {
			t.Username = strings.TrimSpace(renderFlags.username)
			t.Credential = credentials.Lookup(credentials.NewKeyringStore(credentials.DefaultService), t.Username)
		}
		if changed("password") {
			t.Credential = ""
		}
		if err := sess.SetTarget(t); err != nil {
			return err
		}
	}

	fields := []struct {
		flag  string
		field string
		value any
	}{
		{"password", session.FieldPassword, renderFlags.password},
		{"name", session.FieldEntityName, renderFlags.name},
		{"jwt", session.FieldJWT, renderFlags.jwt},
		{"blocking", session.FieldBlocking, renderFlags.blocking},
		{"async", session.FieldAsync, renderFlags.async},
		{"headers", session.FieldUseHeaders, renderFlags.useHeaders},
	}
	for _, f := range fields {
		if !changed(f.flag) {
			continue
		}
		if err := sess.SetField(f.field, f.value); err != nil {
			return err
		}
	}
	if changed("token-expiry") {
		if err := sess.SetTokenExpiry(renderFlags.tokenExpiry); err != nil {
			return err
		}
	}
	if changed("refresh-expiry") {
		if err := sess.SetRefreshExpiry(renderFlags.refreshExpiry); err != nil {
			return err
		}
	}

	for idx, raw := range renderFlags.headers {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid --header %q: expected key=value", raw)
		}
		if idx > 0 {
			if err := sess.AddHeader(); err != nil {
				return err
			}
		}
		if err := sess.UpdateHeaderKey(idx, strings.TrimSpace(key)); err != nil {
			return err
		}
		if err := sess.UpdateHeaderValue(idx, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}
