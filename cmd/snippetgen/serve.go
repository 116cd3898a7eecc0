package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-snippetgen/internal/console"
	"github.com/goliatone/go-snippetgen/internal/logging"
	"github.com/goliatone/go-snippetgen/pkg/quota"
)

var serveFlags struct {
	listen        string
	templatesDir  string
	watch         bool
	themeVariant  string
	shutdownGrace time.Duration
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the example console over HTTP",
	Long: `Serve a page with the live example, a JSON render API and a websocket
that re-renders on every form edit.

Endpoints:
  GET  /                     console page
  GET  /api/languages        languages for ?protocol=SDK|REST
  POST /api/render           render a request (?format=json|text|markdown)
  GET  /ws                   one form session per connection`,
	Example: `  # Default address from the settings file
  snippetgen serve

  # Reload templates from a directory as they change
  snippetgen serve --templates-dir ./templates --watch --log-level info`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.listen, "listen", "", "Listen address (defaults to the listen setting)")
	f.StringVar(&serveFlags.templatesDir, "templates-dir", "", "Load templates from this directory instead of the built-in set")
	f.BoolVar(&serveFlags.watch, "watch", true, "Reload the templates directory when files change")
	f.StringVar(&serveFlags.themeVariant, "theme-variant", "", "Console theme variant (e.g. dark)")
	f.DurationVar(&serveFlags.shutdownGrace, "shutdown-grace", 5*time.Second, "Time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	gate, err := cfg.Gate()
	if err != nil {
		return err
	}

	dir := templatesDir(serveFlags.templatesDir)
	live, err := loadCatalog(dir)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cmd.Context(), live)
	if err != nil {
		return err
	}

	srv, err := console.New(renderer,
		console.WithEnvironment(cfg.Environment()),
		console.WithTarget(target(cfg)),
		console.WithLanguages(live),
		console.WithQuota(gate, cfg.UserState(), quota.DefaultBanner()),
		console.WithTheme(console.ThemeConfig(nil, serveFlags.themeVariant)),
	)
	if err != nil {
		return err
	}

	addr := serveFlags.listen
	if addr == "" {
		addr = cfg.Listen
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dir != "" && serveFlags.watch {
		go func() {
			if err := live.Watch(ctx, dir, nil); err != nil {
				logging.Error("template watcher stopped", zap.String("dir", dir), zap.Error(err))
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	stderrf("Console listening on http://%s\n", addr)
	logging.Info("console listening", zap.String("addr", addr))

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveFlags.shutdownGrace)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
