package console

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-snippetgen/internal/logging"
	"github.com/goliatone/go-snippetgen/pkg/catalog"
)

// LiveCatalog serves lookups from a catalog that can be swapped while
// renders are in flight. Each render sees either the old or the new table.
type LiveCatalog struct {
	current atomic.Pointer[catalog.Store]

	mu     sync.Mutex
	onSwap []func()
}

// NewLiveCatalog wraps store. A nil store falls back to the embedded catalog.
func NewLiveCatalog(store *catalog.Store) *LiveCatalog {
	if store == nil {
		store = catalog.Default()
	}
	c := &LiveCatalog{}
	c.current.Store(store)
	return c
}

// Lookup implements snippet.Catalog.
func (c *LiveCatalog) Lookup(protocol catalog.Protocol, language string) (catalog.Entry, bool) {
	return c.current.Load().Lookup(protocol, language)
}

// Languages lists the language names offered for protocol.
func (c *LiveCatalog) Languages(protocol catalog.Protocol) []string {
	return c.current.Load().Languages(protocol)
}

// Store returns the active table.
func (c *LiveCatalog) Store() *catalog.Store {
	return c.current.Load()
}

// OnSwap registers fn to run after every successful Swap, e.g. to drop
// templates compiled from the previous table.
func (c *LiveCatalog) OnSwap(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.onSwap = append(c.onSwap, fn)
	c.mu.Unlock()
}

// Swap replaces the active table. Nil and empty stores are ignored.
func (c *LiveCatalog) Swap(store *catalog.Store) bool {
	if store == nil || store.Empty() {
		return false
	}
	c.current.Store(store)

	c.mu.Lock()
	hooks := append([]func(){}, c.onSwap...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return true
}

// Reload loads dir and swaps it in.
func (c *LiveCatalog) Reload(dir string) error {
	store, err := catalog.LoadFS(os.DirFS(dir))
	if err != nil {
		return err
	}
	if !c.Swap(store) {
		return errors.New("console: catalog directory holds no entries")
	}
	return nil
}

// Watch reloads the catalog from dir whenever a manifest or template below it
// changes. It blocks until ctx is done. Bursts of events are collapsed into a
// single reload.
func (c *LiveCatalog) Watch(ctx context.Context, dir string, onReload func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}

	const settle = 150 * time.Millisecond
	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			timer.Reset(settle)
		case <-timer.C:
			err := c.Reload(dir)
			if err != nil {
				logging.Error("catalog reload failed", zap.String("dir", dir), zap.Error(err))
			} else {
				logging.Info("catalog reloaded", zap.String("dir", dir), zap.Int("entries", c.Store().Len()))
			}
			if onReload != nil {
				onReload(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
