// Package prefs persists the small set of user preferences the tool
// remembers between runs. Every failure is logged and swallowed: a broken
// preferences file must never stop a minification.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

const (
	// KeyWordWrap stores "true" or "false".
	KeyWordWrap = "goatMinifyWordWrap"
	// KeyManualType stores a content type name or "auto".
	KeyManualType = "goatMinifyManualType"
)

// Keys lists every known preference key.
func Keys() []string {
	return []string{KeyManualType, KeyWordWrap}
}

// IsKnown reports whether key is a recognised preference.
func IsKnown(key string) bool {
	return key == KeyWordWrap || key == KeyManualType
}

// Store is a TOML-backed string map.
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a store at path. A nil logger discards failure reports.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the stored value for key, or def when it is missing or unreadable.
func (s *Store) Get(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		s.logger.Warn("failed to read preference", zap.String("key", key), zap.Error(err))
		return def
	}
	v, ok := values[key]
	if !ok {
		return def
	}
	return v
}

// Set stores value under key and reports whether it was persisted.
func (s *Store) Set(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		// Start over rather than keep a file we cannot parse.
		s.logger.Warn("discarding unreadable preferences", zap.String("path", s.path), zap.Error(err))
		values = map[string]string{}
	}
	values[key] = value

	if err := s.write(values); err != nil {
		s.logger.Error("failed to save preference", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// All returns every stored preference sorted by key.
func (s *Store) All() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		s.logger.Warn("failed to read preferences", zap.Error(err))
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, values[k]})
	}
	return out
}

// ManualType returns the saved type override, or auto when none is saved
// or the saved value is not a known type.
func (s *Store) ManualType() models.TypeOverride {
	o, err := models.ParseTypeOverride(s.Get(KeyManualType, models.Auto))
	if err != nil {
		return models.OverrideAuto
	}
	return o
}

// SetManualType saves o as the manual type override.
func (s *Store) SetManualType(o models.TypeOverride) bool {
	if o == "" {
		o = models.OverrideAuto
	}
	return s.Set(KeyManualType, string(o))
}

// WordWrap returns the saved word-wrap preference, defaulting to false.
func (s *Store) WordWrap() bool {
	b, err := strconv.ParseBool(s.Get(KeyWordWrap, "false"))
	return err == nil && b
}

// read returns an empty map when the file does not exist.
func (s *Store) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return values, nil
}

// write replaces the file atomically.
func (s *Store) write(values map[string]string) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
