package modelcfg

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Registry maps discriminators to constructors.
//
// A Registry is filled during initialization and then sealed. Registration
// is serialized by a mutex; once sealed the entry map is never written again
// and lookups read it without locking. NewCodec seals the registry it is
// given, so decoding never waits on registration.
type Registry struct {
	mu      sync.Mutex
	sealed  atomic.Bool
	entries map[string]Constructor
	log     *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger records registrations and sealing at debug level.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty, unsealed registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{entries: map[string]Constructor{}, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register binds discriminator to c. It fails with *DuplicateKeyError when
// the discriminator is already bound, and with ErrRegistrySealed after Seal.
// A failed call leaves the registry unchanged.
func (r *Registry) Register(discriminator string, c Constructor) error {
	if c == nil {
		return ErrNilConstructor
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return ErrRegistrySealed
	}
	if _, ok := r.entries[discriminator]; ok {
		r.log.Debug("duplicate registration rejected", zap.String("discriminator", discriminator))
		return &DuplicateKeyError{Discriminator: discriminator}
	}
	r.entries[discriminator] = c
	r.log.Debug("registered schema", zap.String("discriminator", discriminator))
	return nil
}

// MustRegister is Register that panics on error. It is meant for package
// init where an ambiguous registry must stop the process.
func (r *Registry) MustRegister(discriminator string, c Constructor) {
	if err := r.Register(discriminator, c); err != nil {
		panic(err)
	}
}

// Seal makes the registry read-only. It is idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		return
	}
	r.sealed.Store(true)
	r.log.Debug("registry sealed", zap.Int("entries", len(r.entries)))
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Lookup returns the constructor bound to discriminator. Matching is exact:
// no case folding, no prefix matching.
func (r *Registry) Lookup(discriminator string) (Constructor, bool) {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	c, ok := r.entries[discriminator]
	return c, ok
}

// Len returns the number of registered discriminators.
func (r *Registry) Len() int {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return len(r.entries)
}

// Discriminators returns the registered discriminators in sorted order.
func (r *Registry) Discriminators() []string {
	if !r.sealed.Load() {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
