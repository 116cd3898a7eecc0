package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-snippetgen/internal/config"
	"github.com/goliatone/go-snippetgen/internal/console"
	"github.com/goliatone/go-snippetgen/internal/credentials"
	"github.com/goliatone/go-snippetgen/internal/logging"
	"github.com/goliatone/go-snippetgen/pkg/catalog"
	"github.com/goliatone/go-snippetgen/pkg/gateway"
	"github.com/goliatone/go-snippetgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-snippetgen/pkg/session"
	"github.com/goliatone/go-snippetgen/pkg/snippet"
)

// loadCatalog returns the embedded catalog, or the catalog under dir when one
// is given.
func loadCatalog(dir string) (*console.LiveCatalog, error) {
	live := console.NewLiveCatalog(nil)
	if strings.TrimSpace(dir) == "" {
		return live, nil
	}
	if err := live.Reload(dir); err != nil {
		return nil, fmt.Errorf("load templates from %s: %w", dir, err)
	}
	logging.Info("using template directory", zap.String("dir", dir), zap.Int("entries", live.Store().Len()))
	return live, nil
}

func templatesDir(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return cfg.TemplatesDir
}

// newRenderer builds a renderer over live. A configured gateway_spec replaces
// the built-in REST gateway paths. Compiled templates are dropped whenever
// live swaps in a new table.
func newRenderer(ctx context.Context, live *console.LiveCatalog) (*snippet.Renderer, error) {
	engine, err := gotemplate.New()
	if err != nil {
		return nil, err
	}
	live.OnSwap(func() {
		logging.Debug("template cache cleared", zap.Int("templates", engine.Reset()))
	})

	opts := []snippet.Option{snippet.WithCatalog(live), snippet.WithTemplateRenderer(engine)}
	if spec := strings.TrimSpace(cfg.GatewaySpec); spec != "" {
		endpoints, err := gateway.Load(ctx, spec, nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, snippet.WithEndpoints(endpoints))
	}
	return snippet.New(opts...)
}

// target fills the configured station and username with the stored
// credential for that username.
func target(c *config.Config) snippet.Target {
	t := c.Target()
	t.Credential = credentials.Lookup(credentials.NewKeyringStore(credentials.DefaultService), t.Username)
	return t
}

func renderObserver(req snippet.Request, out snippet.Output, elapsed time.Duration, err error) {
	logging.LogRender(req.Language, string(req.Protocol), string(req.Scenario), out.DocsOnly, elapsed, err)
}

func baseSessionOptions(c *config.Config) []session.Option {
	return []session.Option{
		session.WithEnvironment(c.Environment()),
		session.WithTarget(target(c)),
		session.WithObserver(renderObserver),
	}
}

func resolveProtocol(raw string) (catalog.Protocol, error) {
	if strings.TrimSpace(raw) == "" {
		return catalog.ProtocolSDK, nil
	}
	return catalog.ParseProtocol(raw)
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
