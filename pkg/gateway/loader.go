package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLoadTimeout bounds remote document fetches.
const DefaultLoadTimeout = 10 * time.Second

// Load reads a gateway OpenAPI document from a file path or an http(s) URL
// and parses it. A nil client uses http.DefaultClient with DefaultLoadTimeout.
func Load(ctx context.Context, location string, client *http.Client) (Catalog, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Catalog{}, errors.New("gateway: document location is required")
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		data, err = loadHTTP(ctx, client, location)
	} else {
		data, err = loadFile(ctx, location)
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("gateway: load %s: %w", location, err)
	}
	return Parse(ctx, data)
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadHTTP(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	reqCtx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
