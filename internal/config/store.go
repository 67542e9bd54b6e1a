// Package config provides the key-value settings store read by the core.
// The core only ever reads; settings are written out-of-band (config file,
// environment). Values are looked up fresh on every orchestration call so
// settings changes take effect immediately.
package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Store is the read-only settings lookup used by the core.
type Store interface {
	// Get returns the value for key, and whether the key is present.
	Get(key string) (string, bool)
}

// Setting keys consumed by the core.
const (
	KeyPrimaryProvider = "provider.primary"
	KeyFallbackEnabled = "provider.fallback_enabled"
)

// ProviderKey builds a per-provider setting key, e.g.
// ProviderKey("local", "endpoint") -> "provider.local.endpoint".
func ProviderKey(id, field string) string {
	return "provider." + id + "." + field
}

// GetBool reads key as a boolean, returning def when the key is absent or
// not parseable.
func GetBool(s Store, key string, def bool) bool {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// GetInt reads key as an integer, returning def when the key is absent or
// not parseable.
func GetInt(s Store, key string, def int) int {
	raw, ok := s.Get(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// FileStore is a viper-backed Store reading a YAML config file with
// QASCOPE_* environment overrides (e.g. QASCOPE_PROVIDER_FRONTIER_API_KEY).
type FileStore struct {
	v *viper.Viper
}

// NewFileStore builds a FileStore. When path is empty the default locations
// (./qascope.yaml, $HOME/.qascope/qascope.yaml) are searched. A missing
// config file is not an error; environment overrides still apply.
func NewFileStore(path string) (*FileStore, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("qascope")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.qascope")
	}

	v.SetEnvPrefix("QASCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return &FileStore{v: v}, nil
		}
		return nil, err
	}

	return &FileStore{v: v}, nil
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// MapStore is an in-memory Store used by tests and programmatic callers.
// A Set after construction is observed by subsequent Gets, matching the
// read-fresh semantics of the file store.
type MapStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMapStore builds a MapStore from the given values.
func NewMapStore(values map[string]string) *MapStore {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapStore{values: copied}
}

// Get implements Store.
func (s *MapStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value. Writes to a single key are atomic with respect to
// concurrent Gets.
func (s *MapStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a key.
func (s *MapStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
