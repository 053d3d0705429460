// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 250 * time.Millisecond

// Store holds the catalog currently being served
type Store struct {
	current  atomic.Pointer[Catalog]
	debounce time.Duration
}

type StoreOption func(*Store)

// WithDebounce sets how long Watch waits for writes to settle before reloading
func WithDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func NewStore(c *Catalog, opts ...StoreOption) *Store {
	s := &Store{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(c)
	return s
}

func (s *Store) Current() *Catalog {
	return s.current.Load()
}

func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}

// Watch reloads the catalog at path whenever it changes, until ctx is done.
// A file that fails to parse leaves the previous catalog in place. onReload
// runs after every successful swap.
func (s *Store) Watch(ctx context.Context, path string, onReload func(*Catalog)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve catalog path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	defer w.Close()

	// watch the directory so editors that replace the file are still seen
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}
	slog.Info("watching catalog", "path", abs)

	var settle *time.Timer
	var fire <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog watcher stopped")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(s.debounce)
			} else {
				settle.Reset(s.debounce)
			}
			fire = settle.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("catalog watcher error", "error", err)

		case <-fire:
			fire = nil
			s.reload(abs, onReload)
		}
	}
}

func (s *Store) reload(path string, onReload func(*Catalog)) {
	c, err := Load(path)
	if err != nil {
		slog.Error("catalog reload failed, keeping previous", "path", path, "error", err)
		return
	}
	s.Replace(c)
	slog.Info("catalog reloaded", "path", path, "types", len(c.Tipos), "products", len(c.Produtos))
	if onReload != nil {
		onReload(c)
	}
}
