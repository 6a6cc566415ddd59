package engine

import (
	"sort"
	"strings"
	"sync"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// ModuleFactory creates the module instance serving one data source of one session.
type ModuleFactory func(ds models.DataSource) (Module, error)

// Registration binds a URI scheme to a module factory.
type Registration struct {
	Scheme      string
	Factory     ModuleFactory
	Modes       []Mode
	DataFormats []string
}

type registryEntry struct {
	registration Registration
	stats        *Statistics
}

// ModuleRegistry maps data source schemes to module registrations.
// Register every module before contexts are created from the registry.
type ModuleRegistry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
}

func NewModuleRegistry(registrations ...Registration) (*ModuleRegistry, error) {
	r := &ModuleRegistry{entries: map[string]*registryEntry{}}
	for _, registration := range registrations {
		if err := r.Register(registration); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *ModuleRegistry) Register(registration Registration) error {
	scheme := strings.ToLower(strings.TrimSpace(registration.Scheme))
	if scheme == "" {
		return errors.NewConfigurationError("module registration has no scheme")
	}
	if registration.Factory == nil {
		return errors.NewConfigurationError("module '%s' has no factory", scheme)
	}
	if len(registration.Modes) == 0 {
		return errors.NewConfigurationError("module '%s' declares no modes", scheme)
	}
	registration.Scheme = scheme

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[scheme]; exists {
		return errors.NewConfigurationError("module scheme '%s' is already registered", scheme)
	}
	r.entries[scheme] = &registryEntry{registration: registration, stats: NewStatistics()}
	return nil
}

func (r *ModuleRegistry) Lookup(scheme string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[strings.ToLower(scheme)]
	if !ok {
		return Registration{}, false
	}
	return entry.registration, true
}

// Registrations returns every registration sorted by scheme.
func (r *ModuleRegistry) Registrations() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registrations := make([]Registration, 0, len(r.entries))
	for _, entry := range r.entries {
		registrations = append(registrations, entry.registration)
	}
	sort.Slice(registrations, func(i, j int) bool {
		return registrations[i].Scheme < registrations[j].Scheme
	})
	return registrations
}

// Statistics returns the counters shared by every instance of the scheme's module.
func (r *ModuleRegistry) Statistics(scheme string) (*Statistics, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[strings.ToLower(scheme)]
	if !ok {
		return nil, false
	}
	return entry.stats, true
}

// Inspect creates a throwaway instance of the scheme's module and asks it to describe document.
func (r *ModuleRegistry) Inspect(scheme string, document any) ([]*models.Field, error) {
	module, err := r.instantiate(models.DataSource{ID: scheme, URI: scheme + ":inspect", Type: models.DataSourceSource})
	if err != nil {
		return nil, err
	}
	inspector, ok := AsInspector(module)
	if !ok {
		return nil, errors.NewConfigurationError("module '%s' does not support inspection", scheme)
	}
	return inspector.Inspect(document)
}

// validate checks that a data source can be served by a registered module.
func (r *ModuleRegistry) validate(ds models.DataSource) error {
	registration, ok := r.Lookup(ds.Scheme())
	if !ok {
		return errors.NewConfigurationError("no module registered for scheme '%s' of data source '%s'", ds.Scheme(), ds.ID)
	}
	if !supportsMode(registration.Modes, ModeOf(ds)) {
		return errors.NewConfigurationError("module '%s' does not support mode %s required by data source '%s'", registration.Scheme, ModeOf(ds), ds.ID)
	}
	return nil
}

func (r *ModuleRegistry) instantiate(ds models.DataSource) (Module, error) {
	r.mu.RLock()
	entry, ok := r.entries[ds.Scheme()]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewConfigurationError("no module registered for scheme '%s' of data source '%s'", ds.Scheme(), ds.ID)
	}

	module, err := entry.registration.Factory(ds)
	if err != nil {
		return nil, errors.WrapConfigurationError(err, "unable to create module for data source '"+ds.ID+"'")
	}
	if module == nil {
		return nil, errors.NewConfigurationError("module factory for scheme '%s' returned no module", entry.registration.Scheme)
	}
	return instrument(module, entry.stats), nil
}
