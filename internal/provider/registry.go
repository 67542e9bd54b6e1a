package provider

import (
	"github.com/qascope/qascope/internal/config"
	"github.com/qascope/qascope/internal/qerrors"
)

// Registry holds the known adapters and resolves the attempt order from
// configuration. Order resolution happens at call time so config edits
// take effect on the next request.
type Registry struct {
	adapters map[string]Adapter
	store    config.Store
}

// NewRegistry builds a registry over the given adapters.
func NewRegistry(store config.Store, adapters ...Adapter) *Registry {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.ID()] = a
	}
	return &Registry{adapters: m, store: store}
}

// NewDefaultRegistry wires the three built-in adapters over shared
// transport defaults.
func NewDefaultRegistry(store config.Store) *Registry {
	return NewRegistry(store,
		NewLocal(nil),
		NewRegional(nil),
		NewFrontier(nil),
	)
}

// Get returns the adapter with the given id, or nil.
func (r *Registry) Get(id string) Adapter {
	return r.adapters[id]
}

// Config resolves the current configuration for the given provider id.
func (r *Registry) Config(id string) Config {
	return ConfigFor(r.store, id)
}

// ResolveOrder returns the adapters to try, in order. The configured
// primary comes first if usable; when fallback is enabled, the remaining
// usable providers follow in fixed priority order (local, regional,
// frontier). Unusable providers never appear in the order.
func (r *Registry) ResolveOrder() ([]Adapter, error) {
	primary, _ := r.store.Get(config.KeyPrimaryProvider)
	fallback := config.GetBool(r.store, config.KeyFallbackEnabled, true)

	usable := func(id string) Adapter {
		a := r.adapters[id]
		if a == nil {
			return nil
		}
		if a.Usable(ConfigFor(r.store, id)) != nil {
			return nil
		}
		return a
	}

	var order []Adapter
	seen := make(map[string]bool)

	if a := usable(primary); a != nil {
		order = append(order, a)
		seen[primary] = true
	}

	if fallback {
		for _, id := range IDs {
			if seen[id] {
				continue
			}
			if a := usable(id); a != nil {
				order = append(order, a)
				seen[id] = true
			}
		}
	}

	if len(order) == 0 {
		return nil, qerrors.New(qerrors.CodeNoProviderConfigured, "no provider is configured").
			WithSuggestion("set provider.primary or configure at least one provider endpoint in qascope.yaml")
	}
	return order, nil
}
