package provider

import (
	"time"

	"github.com/qascope/qascope/internal/config"
)

// Provider identifiers in fallback priority order.
const (
	IDLocal    = "local"
	IDRegional = "regional"
	IDFrontier = "frontier"
)

// IDs lists the known provider identifiers in fixed priority order,
// cheapest and most private first.
var IDs = []string{IDLocal, IDRegional, IDFrontier}

// Config holds the resolved settings for a single provider.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type defaults struct {
	model   string
	timeout time.Duration
}

// Local models are slow on commodity hardware, so the local adapter
// gets a much longer deadline than the hosted ones.
var providerDefaults = map[string]defaults{
	IDLocal:    {model: "llama3.1", timeout: 180 * time.Second},
	IDRegional: {model: "", timeout: 60 * time.Second},
	IDFrontier: {model: "", timeout: 90 * time.Second},
}

// ConfigFor reads the provider's settings from the store, applying
// per-provider defaults for model and timeout. Settings are read fresh on
// every call so configuration changes take effect without a restart.
func ConfigFor(store config.Store, id string) Config {
	d := providerDefaults[id]

	cfg := Config{
		Model:   d.model,
		Timeout: d.timeout,
	}
	if v, ok := store.Get(config.ProviderKey(id, "endpoint")); ok {
		cfg.Endpoint = v
	}
	if v, ok := store.Get(config.ProviderKey(id, "api_key")); ok {
		cfg.APIKey = v
	}
	if v, ok := store.Get(config.ProviderKey(id, "model")); ok && v != "" {
		cfg.Model = v
	}
	if secs := config.GetInt(store, config.ProviderKey(id, "timeout_seconds"), 0); secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	return cfg
}
