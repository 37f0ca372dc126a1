package container

import (
	"errors"
	"fmt"
	"reflect"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the binds for one part of an application.
//
// Register is called as soon as the provider is added and should only bind.
// Boot runs after every provider has registered, so it may resolve anything.
//
//	type AudioProvider struct{ container.BaseProvider }
//
//	func (p *AudioProvider) Register(c *container.Container) error {
//	    return c.BindInheritancesAndSelf(audio.NewMixer())
//	}
type ServiceProvider interface {
	Register(c *Container) error
	Boot(c *Container) error
}

// DeferredProvider is registered lazily: its Register and Boot run on the
// first resolve of any key in Provides.
//
//	func (p *HeavyProvider) Provides() []reflect.Type {
//	    return []reflect.Type{container.KeyOf[*Heavy]()}
//	}
type DeferredProvider interface {
	ServiceProvider
	Provides() []reflect.Type
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers against one container,
// including deferred ones.
type ProviderRegistry struct {
	c          *Container
	providers  []ServiceProvider
	deferred   map[reflect.Type]DeferredProvider // provided key → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		c:          c,
		deferred:   make(map[reflect.Type]DeferredProvider),
		registered: make(map[ServiceProvider]bool),
	}
	c.onMiss = r.loadDeferred
	return r
}

// Register adds a provider and runs its Register. A provider added after
// Boot is booted immediately. Adding the same provider twice is a no-op.
// A DeferredProvider with keys to provide waits for the first resolve of
// one of them.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	if dp, ok := provider.(DeferredProvider); ok && len(dp.Provides()) > 0 {
		r.registered[provider] = true
		for _, key := range dp.Provides() {
			r.deferred[key] = dp
		}
		r.c.log.Debug().Str("provider", fmt.Sprintf("%T", provider)).Msg("provider deferred")
		return nil
	}
	return r.load(provider)
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	if err := provider.Register(r.c); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)

	if r.booted {
		if err := provider.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// loadDeferred registers the provider deferred on key, once. Its other
// keys are released with it.
func (r *ProviderRegistry) loadDeferred(key reflect.Type) (bool, error) {
	dp, ok := r.deferred[key]
	if !ok {
		return false, nil
	}
	for k, p := range r.deferred {
		if p == dp {
			delete(r.deferred, k)
		}
	}
	r.c.log.Debug().Str("provider", fmt.Sprintf("%T", dp)).Stringer("key", key).Msg("loading deferred provider")
	return true, r.load(dp)
}

// Boot runs Boot on every loaded provider in registration order. Later
// calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	var errs []error
	for _, provider := range r.providers {
		if err := provider.Boot(r.c); err != nil {
			errs = append(errs, fmt.Errorf("boot %T: %w", provider, err))
		}
	}
	return errors.Join(errs...)
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the loaded providers in load order. Deferred providers
// appear once their first key is resolved.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }

// Deferred returns the keys still waiting on a deferred provider, sorted by
// name.
func (r *ProviderRegistry) Deferred() []reflect.Type {
	keys := make([]reflect.Type, 0, len(r.deferred))
	for k := range r.deferred {
		keys = append(keys, k)
	}
	sortTypes(keys)
	return keys
}
