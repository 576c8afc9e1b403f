package file

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults
var defaults embed.FS

const promptExt = ".txt"

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	raw, err := defaults.ReadFile("defaults/" + name + promptExt)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}

// PromptStore serves templates from <dir>/<name>.txt. The directory is
// seeded with the defaults and a README on first use; files a user has
// edited or deleted are never overwritten, and a missing or blank file
// falls back to the default.
type PromptStore struct {
	dir     string
	prepare func() error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore touches nothing on disk. An empty dir means
// ~/.scout/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, "prompts")
	}
	s := &PromptStore{dir: dir, cache: map[string]string{}}
	s.prepare = sync.OnceValue(s.seed)
	return s, nil
}

func (s *PromptStore) Dir() string { return s.dir }

// seed copies every embedded file that does not exist yet.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("preparing prompt directory: %w", err)
	}
	entries, err := defaults.ReadDir("defaults")
	if err != nil {
		return err
	}
	for _, e := range entries {
		dst := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(dst); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		raw, err := defaults.ReadFile("defaults/" + e.Name())
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, raw, 0o600); err != nil {
			return fmt.Errorf("preparing prompt directory: %w", err)
		}
	}
	return nil
}

// Load falls back to the default whenever the file cannot be used,
// including when the directory cannot be created.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := DefaultPrompt(name)
	if err := s.prepare(); err != nil {
		if known {
			return def, nil
		}
		return "", err
	}

	s.mu.RLock()
	p, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := s.read(name)
	switch {
	case err == nil:
	case known:
		p = def
	default:
		return "", fmt.Errorf("prompt %q: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = p
	s.mu.Unlock()
	return p, nil
}

func (s *PromptStore) read(name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name+promptExt))
	if err != nil {
		return "", err
	}
	p := strings.TrimSpace(string(raw))
	if p == "" {
		return "", fs.ErrNotExist
	}
	return p, nil
}

func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

func (s *PromptStore) forget(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// Watch evicts a cached prompt whenever its file changes. It returns once
// the watch is in place and keeps watching until ctx is done.
func (s *PromptStore) Watch(ctx context.Context) error {
	if err := s.prepare(); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating prompt watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}
	go s.watch(ctx, w)
	return nil
}

func (s *PromptStore) watch(ctx context.Context, w *fsnotify.Watcher) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if name, ok := promptEvent(ev); ok {
				s.forget(name)
				logger.Debug("prompt %q changed on disk", name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// promptEvent maps a content change of a .txt file to its prompt name.
func promptEvent(ev fsnotify.Event) (string, bool) {
	base := filepath.Base(ev.Name)
	if filepath.Ext(base) != promptExt || strings.HasPrefix(base, ".") {
		return "", false
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	return strings.TrimSuffix(base, promptExt), true
}
