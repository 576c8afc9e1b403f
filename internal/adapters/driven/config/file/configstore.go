package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/scout/internal/adapters/driven/config/value"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFileName is the settings file inside the config directory.
const ConfigFileName = "config.toml"

// ConfigStore reads and writes config.toml. In memory the tables are
// flattened, so "[llm] provider" is stored under "llm.provider".
type ConfigStore struct {
	path string

	mu   sync.RWMutex
	flat map[string]any
}

// DefaultDir is ~/.scout.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".scout"), nil
}

// NewConfigStore opens dir/config.toml, creating dir if needed. An empty
// dir means DefaultDir. A missing file is an empty store.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{path: filepath.Join(dir, ConfigFileName)}
	flat, err := s.read()
	if err != nil {
		return nil, err
	}
	s.flat = flat
	return s, nil
}

func (s *ConfigStore) read() (map[string]any, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return value.Flatten(tables, ""), nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flat[key]
	return v, ok
}

// Set writes the whole file back. On an encode or write failure the
// in-memory value is rolled back.
func (s *ConfigStore) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.flat[key]
	s.flat[key] = v
	if err := s.write(); err != nil {
		if had {
			s.flat[key] = prev
		} else {
			delete(s.flat, key)
		}
		return err
	}
	return nil
}

// write must be called with mu held. The file is 0600 because it can
// hold API keys.
func (s *ConfigStore) write() error {
	out, err := toml.Marshal(value.Nest(s.flat))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return value.SortedKeys(s.flat)
}

func (s *ConfigStore) Path() string { return s.path }
